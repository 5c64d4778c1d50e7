// Package messaging builds the prefilled chat link handed back to a visitor
// after they submit an inquiry. Nothing is sent from the server.
package messaging

import (
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

const messageTemplate = `Hello, my name is {{.Name}}.
{{- if .ProjectType}}
I'm interested in a {{.ProjectType}} project.
{{- end}}
{{- if .Message}}

{{.Message}}
{{- end}}

Phone: {{.Phone}}
{{- if .Email}}
Email: {{.Email}}
{{- end}}
`

type Composer struct {
	number string
	tmpl   *template.Template
}

// NewComposer targets the business WhatsApp number. Formatting characters in
// number are ignored.
func NewComposer(number string) *Composer {
	return &Composer{
		number: digits(number),
		tmpl:   template.Must(template.New("inquiry").Parse(messageTemplate)),
	}
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Message renders the chat text for q.
func (c *Composer) Message(q domain.Inquiry) (string, error) {
	var b strings.Builder
	if err := c.tmpl.Execute(&b, q); err != nil {
		return "", fmt.Errorf("render inquiry message: %w", err)
	}
	return b.String(), nil
}

// ChatURL returns a wa.me link with the message prefilled, or "" when no
// business number is configured.
func (c *Composer) ChatURL(q domain.Inquiry) (string, error) {
	if c.number == "" {
		return "", nil
	}
	msg, err := c.Message(q)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return "https://wa.me/" + c.number + "?text=" + text, nil
}
