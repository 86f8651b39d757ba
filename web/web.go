// Package web 内嵌的页面模板
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates 解析全部页面模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"formatTime": formatTime,
	}).ParseFS(templatesFS, "templates/*.html")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "永不过期"
	}
	return t.Local().Format("2006-01-02 15:04")
}
