package pipeline

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/jeevandaan/website/internal/forms"
	"github.com/jeevandaan/website/pkg/sanitizer"
)

var bodyTmpl = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>{{.Title}}</h2>
  <table cellpadding="6" cellspacing="0" border="0">
{{- range .Rows}}
    <tr>
      <td valign="top"><strong>{{.Label}}</strong></td>
      {{- if .Multiline}}
      <td><pre style="font-family: inherit; white-space: pre-wrap; margin: 0;">{{.Value}}</pre></td>
      {{- else}}
      <td>{{.Value}}</td>
      {{- end}}
    </tr>
{{- end}}
  </table>
  <hr>
  <p style="color: #777; font-size: 12px;">Submitted {{.SubmittedAt}}{{if .IP}} from {{.IP}}{{end}}.</p>
</body>
</html>
`))

type bodyRow struct {
	Label     string
	Value     string
	Multiline bool
}

type bodyData struct {
	Title       string
	Rows        []bodyRow
	SubmittedAt string
	IP          string
}

// composeBody renders the notification email for a cleaned submission,
// returning HTML and plain-text variants. Empty fields are omitted.
func composeBody(def forms.Definition, fields map[string]string, at time.Time, ip string) (string, string, error) {
	data := bodyData{
		Title:       def.Title,
		SubmittedAt: at.UTC().Format(time.RFC3339),
		IP:          ip,
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s\n\n", def.Title)

	for _, name := range def.FieldNames() {
		value := fields[name]
		if value == "" {
			continue
		}
		data.Rows = append(data.Rows, bodyRow{
			Label:     fieldLabel(name),
			Value:     value,
			Multiline: def.Kinds[name] == sanitizer.KindText,
		})
		fmt.Fprintf(&text, "%s: %s\n", fieldLabel(name), value)
	}

	fmt.Fprintf(&text, "\nSubmitted %s", data.SubmittedAt)
	if ip != "" {
		fmt.Fprintf(&text, " from %s", ip)
	}
	text.WriteString(".\n")

	var html strings.Builder
	if err := bodyTmpl.Execute(&html, data); err != nil {
		return "", "", err
	}
	return html.String(), text.String(), nil
}

// fieldLabel turns a field name into a human label, e.g. "interest" becomes
// "Interest".
func fieldLabel(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
