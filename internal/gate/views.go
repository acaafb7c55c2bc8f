package gate

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pendingView struct {
	RefreshSeconds int
}

type deniedView struct {
	Message  string
	Action   string
	HomePath string
}

// renderHTML はテンプレートを描画してから書き込む。描画に失敗した場合は何も書き込まずにエラーを返す。
func renderHTML(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
