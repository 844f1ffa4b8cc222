package services

import (
	"bytes"
	"html/template"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
)

var (
	adminNoticeTmpl = template.Must(template.New("admin").Parse(`<div style="font-family: Georgia, serif; max-width: 600px; margin: 0 auto; padding: 32px 24px; color: #1c1917;">
<h2 style="font-size: 22px;">New Contact Message</h2>
<table style="width: 100%; font-size: 14px;">
<tr><td style="color: #78716c; width: 100px;">Name</td><td><strong>{{.Name}}</strong></td></tr>
<tr><td style="color: #78716c;">Email</td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
{{with .Phone}}<tr><td style="color: #78716c;">Phone</td><td>{{.}}</td></tr>{{end}}
{{with .Subject}}<tr><td style="color: #78716c;">Subject</td><td>{{.}}</td></tr>{{end}}
</table>
<p style="margin-top: 24px; white-space: pre-wrap;">{{.Message}}</p>
<p style="font-size: 12px; color: #a8a29e;">Reply directly to this email to respond to {{.Name}}.</p>
</div>`))

	confirmationTmpl = template.Must(template.New("confirm").Parse(`<div style="font-family: Georgia, serif; max-width: 600px; margin: 0 auto; padding: 32px 24px; color: #1c1917;">
<h2 style="font-size: 22px;">Thank You, {{.Name}}</h2>
<p>We've received your message and will get back to you within 1-2 business days.</p>
<p>In the meantime, feel free to browse our catalog for the latest designs.</p>
<p><a href="{{.CatalogURL}}">Browse Catalog</a></p>
<p style="font-size: 12px; color: #a8a29e;">Orit's Fashion &middot; Elegance in Every Stitch</p>
</div>`))
)

func adminNotice(m domain.ContactMessage, to string) (domain.Email, error) {
	var buf bytes.Buffer
	if err := adminNoticeTmpl.Execute(&buf, m); err != nil {
		return domain.Email{}, err
	}
	subject := "General Inquiry"
	if m.Subject != nil {
		subject = *m.Subject
	}
	return domain.Email{
		To:      []string{to},
		ReplyTo: m.Email,
		Subject: "New Message: " + subject + " - " + m.Name,
		HTML:    buf.String(),
	}, nil
}

func customerConfirmation(m domain.ContactMessage, siteURL string) (domain.Email, error) {
	if siteURL == "" {
		siteURL = "https://oritsfashion.com"
	}
	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, struct {
		Name       string
		CatalogURL string
	}{m.Name, siteURL + "/catalog"})
	if err != nil {
		return domain.Email{}, err
	}
	return domain.Email{
		To:      []string{m.Email},
		Subject: "We received your message - Orit's Fashion",
		HTML:    buf.String(),
	}, nil
}
