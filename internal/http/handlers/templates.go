package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"
)

// TemplateCache holds parsed page templates. Each page is parsed together
// with the shared partials so nav and banner markup live in one place.
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"fmtDate": func(t time.Time) string {
				return t.Format("Jan 2, 2006")
			},
			"fmtDateTime": func(t time.Time) string {
				return t.Format("Jan 2, 2006 15:04")
			},
		},
	}
}

// AddFunc registers an extra template function. Call before Load.
func (tc *TemplateCache) AddFunc(name string, fn any) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses every page under dir, each combined with dir/partials.
func (tc *TemplateCache) Load(dir string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	partials, err := filepath.Glob(filepath.Join(dir, "partials", "*.html"))
	if err != nil {
		return err
	}
	pages, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return err
	}

	for _, page := range pages {
		name := filepath.Base(page)
		files := append([]string{page}, partials...)
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFiles(files...)
		if err != nil {
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

// render executes a cached page or fails the request.
func render(tc *TemplateCache, w http.ResponseWriter, name string, data any) {
	tmpl := tc.Get(name)
	if tmpl == nil {
		slog.Error("template not found", "name", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("execute template", "name", name, "error", err)
	}
}
