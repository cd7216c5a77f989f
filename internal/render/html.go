package render

import (
	"html/template"
	"io"
	"strings"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.SVG}}
</body>
</html>
`))

// WriteHTML writes a standalone page embedding svg.
func WriteHTML(w io.Writer, title, svg string) error {
	return page.Execute(w, struct {
		Title string
		SVG   template.HTML
	}{
		Title: strings.TrimSpace(title),
		SVG:   template.HTML(svg),
	})
}
