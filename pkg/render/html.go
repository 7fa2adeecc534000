package render

import (
	"html/template"
	"io"

	"spacedash/pkg/pipeline"
)

var pageTemplate = template.Must(template.New("cards").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; background: #0b0d1a; color: #f5f5f5; }
.card { text-align: center; margin: 3px; padding: 8px; }
.card img { object-fit: cover; display: block; margin: 0 auto; }
.notice { color: #f4d03f; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Notice}}
<p class="notice">{{.Notice}}</p>
{{- end}}
{{- range .Cards}}
<div class="card">
{{- if .Image}}
<img src="{{.Image}}" alt="{{.Name}}" width="{{.Width}}" height="{{.Height}}">
{{- else}}
<p class="no-image">No image available for {{.Name}}</p>
{{- end}}
<h3>{{.Heading}}</h3>
{{- range .Fields}}
<p data-field="{{.Key}}"><b>{{.Label}}:</b> {{.Value}}</p>
{{- end}}
<hr>
</div>
{{- end}}
</body>
</html>
`))

// Page is the data for an HTML card page
type Page struct {
	Title  string
	Notice string
	Cards  []pipeline.Card
}

// HTML writes a standalone page listing the cards. Values are escaped.
func HTML(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}
