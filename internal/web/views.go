package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/EmpoweredVote/lego-catalog/internal/catalog"
	"github.com/EmpoweredVote/lego-catalog/internal/session"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"home", "about",
	"sets", "set", "addSet", "editSet",
	"login", "register", "userHistory",
	"404", "500",
}

// pageData is handed to every view. Fields a view does not use stay zero.
type pageData struct {
	Session        *session.User
	Message        string
	ErrorMessage   string
	SuccessMessage string
	Username       string

	Sets   []catalog.Set
	Set    *catalog.Set
	Themes []catalog.Theme
}

type views struct {
	pages map[string]*template.Template
}

func parseViews() (*views, error) {
	funcs := template.FuncMap{
		"number": func(n int) string {
			return message.NewPrinter(language.English).Sprintf("%d", n)
		},
		"datetime": func(t time.Time) string {
			return t.Local().Format("Mon Jan 2 2006 15:04:05 MST")
		},
	}

	v := &views{pages: map[string]*template.Template{}}
	for _, name := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// render executes the named view into a buffer first so a template error never
// leaves a half-written page behind.
func (v *views) render(w http.ResponseWriter, status int, name string, data pageData) {
	t, ok := v.pages[name]
	if !ok {
		http.Error(w, "unknown view "+name, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.Printf("[web] render %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
