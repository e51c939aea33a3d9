package intake

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/angelmondragon/castcall-backend/pkg/mailer"
)

type castingMail struct {
	Name         string
	Email        string
	SocialHandle string
	FolderKey    string
	FileLinks    []string
	FileCount    int
	HasVoice     bool
	SubmittedAt  string
}

type sponsorMail struct {
	Company      string
	ContactName  string
	ContactEmail string
	Message      string
}

var (
	adminCastingText = texttemplate.Must(texttemplate.New("admin_casting").Parse(`New casting application

Name: {{.Name}}
Email: {{.Email}}
Social handle: {{if .SocialHandle}}{{.SocialHandle}}{{else}}not provided{{end}}
Folder: {{.FolderKey}}
Submitted: {{.SubmittedAt}}
Voice sample: {{if .HasVoice}}yes{{else}}no{{end}}

Files ({{.FileCount}}):
{{range .FileLinks}}- {{.}}
{{else}}none
{{end}}`))

	adminCastingHTML = htmltemplate.Must(htmltemplate.New("admin_casting").Parse(`<h2>New casting application</h2>
<p><strong>Name:</strong> {{.Name}}<br>
<strong>Email:</strong> {{.Email}}<br>
<strong>Social handle:</strong> {{if .SocialHandle}}{{.SocialHandle}}{{else}}not provided{{end}}<br>
<strong>Folder:</strong> {{.FolderKey}}<br>
<strong>Submitted:</strong> {{.SubmittedAt}}<br>
<strong>Voice sample:</strong> {{if .HasVoice}}yes{{else}}no{{end}}</p>
<h3>Files ({{.FileCount}})</h3>
{{if .FileLinks}}<ul>{{range .FileLinks}}<li><a href="{{.}}">{{.}}</a></li>{{end}}</ul>{{else}}<p>none</p>{{end}}`))

	applicantText = texttemplate.Must(texttemplate.New("applicant").Parse(`Hi {{.Name}},

Thank you for your casting application. We received it along with {{.FileCount}} file(s){{if .HasVoice}}, including your voice sample{{end}}.

Our team reviews every submission and will reach out if there is a fit.
`))

	applicantHTML = htmltemplate.Must(htmltemplate.New("applicant").Parse(`<p>Hi {{.Name}},</p>
<p>Thank you for your casting application. We received it along with {{.FileCount}} file(s){{if .HasVoice}}, including your voice sample{{end}}.</p>
<p>Our team reviews every submission and will reach out if there is a fit.</p>`))

	sponsorText = texttemplate.Must(texttemplate.New("sponsor").Parse(`New sponsorship inquiry

Company: {{.Company}}
Contact: {{.ContactName}}
Email: {{.ContactEmail}}

{{.Message}}
`))

	sponsorHTML = htmltemplate.Must(htmltemplate.New("sponsor").Parse(`<h2>New sponsorship inquiry</h2>
<p><strong>Company:</strong> {{.Company}}<br>
<strong>Contact:</strong> {{.ContactName}}<br>
<strong>Email:</strong> {{.ContactEmail}}</p>
<p>{{.Message}}</p>`))
)

func newCastingMail(sub Submission, folderKey string, links []string, submittedAt time.Time) castingMail {
	return castingMail{
		Name:         sub.Name,
		Email:        sub.Email,
		SocialHandle: sub.SocialHandle,
		FolderKey:    folderKey,
		FileLinks:    links,
		FileCount:    len(links),
		HasVoice:     sub.Audio != nil,
		SubmittedAt:  submittedAt.UTC().Format(time.RFC1123),
	}
}

func adminCastingMessage(to string, data castingMail) (mailer.Message, error) {
	msg := mailer.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("New Casting Application: %s", data.Name),
		ReplyTo: data.Email,
	}
	return render(msg, adminCastingText, adminCastingHTML, data)
}

func applicantMessage(data castingMail) (mailer.Message, error) {
	msg := mailer.Message{
		To:      []string{data.Email},
		Subject: "We received your casting application",
	}
	return render(msg, applicantText, applicantHTML, data)
}

func sponsorMessage(to string, inq SponsorInquiry) (mailer.Message, error) {
	company := inq.Company
	if company == "" {
		company = inq.ContactEmail
	}
	msg := mailer.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("New Sponsorship Inquiry: %s", company),
		ReplyTo: inq.ContactEmail,
	}
	return render(msg, sponsorText, sponsorHTML, sponsorMail{
		Company:      inq.Company,
		ContactName:  inq.ContactName,
		ContactEmail: inq.ContactEmail,
		Message:      inq.Message,
	})
}

func render(msg mailer.Message, text *texttemplate.Template, html *htmltemplate.Template, data any) (mailer.Message, error) {
	var textBuf, htmlBuf bytes.Buffer
	if err := text.Execute(&textBuf, data); err != nil {
		return msg, fmt.Errorf("render %s text: %w", text.Name(), err)
	}
	if err := html.Execute(&htmlBuf, data); err != nil {
		return msg, fmt.Errorf("render %s html: %w", html.Name(), err)
	}
	msg.Text = textBuf.String()
	msg.HTML = htmlBuf.String()
	return msg, nil
}
