package mailer

import (
	"strings"
	"text/template"

	"github.com/rotisserie/eris"
)

// TemplateElectionDateChanged goes to donors whose remaining limit may
// be affected by a date change; TemplateElectionDateNotification is the
// generic heads-up for donors targeted by residency alone.
const (
	TemplateElectionDateChanged      = "ElectionDateChanged"
	TemplateElectionDateNotification = "ElectionDateNotification"
)

type emailTemplate struct {
	Subject string
	Body    *template.Template
}

var templates = map[string]emailTemplate{
	TemplateElectionDateChanged: {
		Subject: "Election dates changed in {{state}} — your donation limits may be affected",
		Body: template.Must(template.New(TemplateElectionDateChanged).Parse(
			`Hi {{.FirstName}},

{{.State}} has updated its election dates. {{.Impact}}

You can review your remaining donation limits any time from your account page.

— The CivicGive team
`)),
	},
	TemplateElectionDateNotification: {
		Subject: "Election date update for {{state}}",
		Body: template.Must(template.New(TemplateElectionDateNotification).Parse(
			`Hi {{.FirstName}},

Election dates in {{.State}} have changed. If you support candidates in {{.State}}, this may affect when your donation limits reset.

— The CivicGive team
`)),
	},
}

// render produces the subject and text body for a message.
func render(msg Message) (subject, text string, err error) {
	tmpl, ok := templates[msg.Template]
	if !ok {
		return "", "", eris.Errorf("mailer: unknown template %q", msg.Template)
	}

	data := map[string]any{"FirstName": msg.FirstName}
	for k, v := range msg.Data {
		data[k] = v
	}
	if name, _ := data["FirstName"].(string); name == "" {
		data["FirstName"] = "there"
	}

	state, _ := data["State"].(string)
	subject = strings.ReplaceAll(tmpl.Subject, "{{state}}", state)

	var buf strings.Builder
	if err := tmpl.Body.Execute(&buf, data); err != nil {
		return "", "", eris.Wrapf(err, "mailer: render %s", msg.Template)
	}
	return subject, buf.String(), nil
}
