package web

import "embed"

// TemplateFS holds the embedded HTML templates.
//
//go:embed templates/*.html
var TemplateFS embed.FS
