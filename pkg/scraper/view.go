package scraper

// Contact is the structured serialization of a Result. Absent single values
// are nil so they encode as null; lists are never nil.
type Contact struct {
	URL       string   `json:"url" yaml:"url"`
	Name      *string  `json:"name" yaml:"name"`
	Specialty *string  `json:"specialty" yaml:"specialty"`
	Location  *string  `json:"location" yaml:"location"`
	Email     *string  `json:"email" yaml:"email"`
	AllEmails []string `json:"allEmails" yaml:"allEmails"`
	Phone     *string  `json:"phone" yaml:"phone"`
	AllPhones []string `json:"allPhones" yaml:"allPhones"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// TSVHeader names the columns produced by Contact.Columns.
var TSVHeader = []string{"url", "email", "name", "location", "specialty", "phone"}

// Contact returns the structured view of r.
func (r *Result) Contact() Contact {
	rec := r.Record
	c := Contact{
		URL:       r.URL,
		Name:      optional(rec.Name),
		Specialty: optional(rec.Specialty),
		Location:  optional(rec.Location),
		Email:     optional(rec.Email()),
		AllEmails: nonNil(rec.Emails),
		Phone:     optional(rec.Phone()),
		AllPhones: nonNil(rec.Phones),
	}
	if r.Error != nil {
		c.Error = r.Error.Error()
	}
	return c
}

// Columns renders the contact as one flat row, absent values as "".
func (c Contact) Columns() []string {
	return []string{
		c.URL,
		deref(c.Email),
		deref(c.Name),
		deref(c.Location),
		deref(c.Specialty),
		deref(c.Phone),
	}
}

// EmailView is the email-only serialization of a Result.
type EmailView struct {
	Email     *string  `json:"email"`
	AllEmails []string `json:"allEmails"`
}

// Emails returns the email-only view of r.
func (r *Result) Emails() EmailView {
	return EmailView{
		Email:     optional(r.Record.Email()),
		AllEmails: nonNil(r.Record.Emails),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
