// Package version reports contactscrape build metadata. The variables are
// injected at build time:
//
//	go build -ldflags "-X github.com/jmylchreest/contactscrape/internal/version.Version=1.0.0 \
//	  -X github.com/jmylchreest/contactscrape/internal/version.Commit=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"
	"strings"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	Dirty     = "false" // "true" when built from a modified tree
	BuildDate = "unknown"
)

// Info is the build metadata of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Dirty:     Dirty == "true",
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short returns the one-word build label used by /health and the server
// banner, e.g. "1.2.0-dirty+0123456".
func Short() string {
	return Get().Label()
}

// Label is the version, marked dirty when applicable and suffixed with the
// abbreviated commit when known.
func (i Info) Label() string {
	v := i.Version
	if i.Dirty {
		v += "-dirty"
	}
	if c := i.Commit; c != "unknown" && c != "" {
		if len(c) > 7 {
			c = c[:7]
		}
		v += "+" + c
	}
	return v
}

// String renders the metadata for `contactscrape version`.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "contactscrape %s\n", i.Label())
	fmt.Fprintf(&sb, "  Commit:     %s\n", i.Commit)
	fmt.Fprintf(&sb, "  Built:      %s\n", i.BuildDate)
	fmt.Fprintf(&sb, "  Go version: %s\n", i.GoVersion)
	fmt.Fprintf(&sb, "  OS/Arch:    %s", i.Platform)
	return sb.String()
}
