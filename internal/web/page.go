package web

import (
	"html/template"
	"strings"

	"github.com/jeevandaan/website/internal/forms"
	"github.com/jeevandaan/website/internal/pipeline"
	"github.com/jeevandaan/website/pkg/sanitizer"
)

type fieldView struct {
	Name    string
	Label   string
	Value   string
	Error   string
	Input   string // text, email, tel, textarea, select
	Choices []string
}

type formView struct {
	ID      string
	Title   string
	Anchor  string
	Outcome *pipeline.Outcome
	Fields  []fieldView
}

type pageView struct {
	CSRFField     string
	CSRFToken     string
	FormField     string
	HoneypotField string
	Forms         []formView
}

// buildFormView merges a form definition with the flashed result of the
// previous attempt, if any.
func buildFormView(def forms.Definition, flash pipeline.Flash) formView {
	view := formView{
		ID:     string(def.ID),
		Title:  def.Title,
		Anchor: def.Anchor,
	}
	if flash.Outcome.Message != "" {
		outcome := flash.Outcome
		view.Outcome = &outcome
	}

	for _, name := range def.FieldNames() {
		view.Fields = append(view.Fields, fieldView{
			Name:    name,
			Label:   fieldLabel(name),
			Value:   flash.Fields[name],
			Error:   flash.FieldErrors[name],
			Input:   inputType(def, name),
			Choices: def.Choices[name],
		})
	}
	return view
}

func inputType(def forms.Definition, name string) string {
	if len(def.Choices[name]) > 0 {
		return "select"
	}
	switch def.Kinds[name] {
	case sanitizer.KindText:
		return "textarea"
	case sanitizer.KindEmail:
		return "email"
	case sanitizer.KindPhone:
		return "tel"
	default:
		return "text"
	}
}

func fieldLabel(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Get Involved</title>
</head>
<body>
{{- $page := .}}
{{- range .Forms}}
  {{- $form := .}}
  <section id="{{.Anchor}}">
    <h2>{{.Title}}</h2>
    {{- with .Outcome}}
    <p class="{{if .Success}}notice-success{{else}}notice-error{{end}}" role="status">{{.Message}}</p>
    {{- end}}
    <form method="post" action="/submit" novalidate>
      <input type="hidden" name="{{$page.FormField}}" value="{{.ID}}">
      <input type="hidden" name="{{$page.CSRFField}}" value="{{$page.CSRFToken}}">
      <div class="extra-field" aria-hidden="true" style="position:absolute;left:-9999px">
        <label>Leave this field empty
          <input type="text" name="{{$page.HoneypotField}}" tabindex="-1" autocomplete="off">
        </label>
      </div>
      {{- range .Fields}}
      <p>
        <label for="{{$form.ID}}-{{.Name}}">{{.Label}}</label>
        {{- if eq .Input "textarea"}}
        <textarea id="{{$form.ID}}-{{.Name}}" name="{{.Name}}" rows="6">{{.Value}}</textarea>
        {{- else if eq .Input "select"}}
        <select id="{{$form.ID}}-{{.Name}}" name="{{.Name}}">
          <option value="">Please choose</option>
          {{- $value := .Value}}
          {{- range .Choices}}
          <option value="{{.}}"{{if eq . $value}} selected{{end}}>{{.}}</option>
          {{- end}}
        </select>
        {{- else}}
        <input type="{{.Input}}" id="{{$form.ID}}-{{.Name}}" name="{{.Name}}" value="{{.Value}}">
        {{- end}}
        {{- with .Error}}
        <span class="field-error" role="alert">{{.}}</span>
        {{- end}}
      </p>
      {{- end}}
      <p><button type="submit">Send</button></p>
    </form>
  </section>
{{- end}}
</body>
</html>
`))
