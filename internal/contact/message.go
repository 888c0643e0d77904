package contact

import (
	"errors"
	"fmt"
	"strings"
)

var ErrValidation = errors.New("validation failed")

// Submission carries one contact form post. It is never persisted,
// only validated, relayed as an email, and discarded.
type Submission struct {
	GName   string `json:"gname"`
	GMail   string `json:"gmail"`
	CName   string `json:"cname"`
	CAge    string `json:"cage"`
	Message string `json:"message"`
}

// Validate requires sender name, sender email and message to be non-empty
// after trimming; the remaining fields pass through verbatim.
func (s Submission) Validate() error {
	var missing []string
	if strings.TrimSpace(s.GName) == "" {
		missing = append(missing, "gname")
	}
	if strings.TrimSpace(s.GMail) == "" {
		missing = append(missing, "gmail")
	}
	if strings.TrimSpace(s.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// EmailBody composes the plain text message forwarded to the site owner
func (s Submission) EmailBody() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nombre: %s\n", s.GName)
	fmt.Fprintf(&b, "Email: %s\n", s.GMail)
	if s.CName != "" {
		fmt.Fprintf(&b, "Nombre del niño: %s\n", s.CName)
	}
	if s.CAge != "" {
		fmt.Fprintf(&b, "Edad del niño: %s\n", s.CAge)
	}
	fmt.Fprintf(&b, "\nMensaje:\n%s\n", s.Message)
	return b.String()
}
