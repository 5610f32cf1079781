// Package main is the entry point for the contactscrape CLI.
package main

import (
	"os"

	"github.com/jmylchreest/contactscrape/cmd/contactscrape/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
