package notify

import (
	"bytes"
	"html/template"
)

var (
	adminTemplate = template.Must(template.New("admin").Parse(`<h2>New contact message</h2>
<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
{{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
<p><strong>Subject:</strong> {{.Subject}}</p>
<p>{{.Message}}</p>
<p><small>Received {{.ReceivedAt.Format "2006-01-02 15:04 MST"}}</small></p>`))

	confirmationTemplate = template.Must(template.New("confirmation").Parse(`<p>Dear {{.Name}},</p>
<p>Thank you for contacting us. We received your message about "{{.Subject}}" and will respond as soon as possible.</p>`))
)

func render(t *template.Template, n ContactNotification) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
