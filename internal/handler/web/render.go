package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"StockTrend/pkg/util"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	t *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("web").Funcs(template.FuncMap{
		"date":  func(t time.Time) string { return util.FormatDate(t) },
		"price": func(v float64) string { return fmt.Sprintf("%.4f", v) },
		"coef":  func(v float64) string { return fmt.Sprintf("%.6f", v) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}
