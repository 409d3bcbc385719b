// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/taibuivan/vidshare/internal/models"
	"github.com/taibuivan/vidshare/internal/platform/ctxutil"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "layout.html"

// Renderer executes page templates. Each page is parsed together with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template.
func NewRenderer() (*Renderer, error) {
	pageFiles, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("render_glob_failed: %w", err)
	}

	markdown := newMarkdown()
	funcs := template.FuncMap{
		"count":    func(n int64) string { return humanize.Comma(n) },
		"ago":      relativeTime,
		"markdown": markdown.render,
		"initials": initials,
	}

	renderer := &Renderer{pages: make(map[string]*template.Template)}
	for _, file := range pageFiles {
		name := strings.TrimPrefix(file, "templates/")
		if name == layoutTemplate {
			continue
		}

		page, err := template.New(layoutTemplate).Funcs(funcs).ParseFS(templateFS, "templates/"+layoutTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("render_parse_failed: %s: %w", name, err)
		}
		renderer.pages[name] = page
	}

	return renderer, nil
}

// Render writes page with data. The page is executed into a buffer first so
// a template error never produces a half-written response.
func (renderer *Renderer) Render(writer http.ResponseWriter, request *http.Request, status int, name string, data any) {
	page, ok := renderer.pages[name]
	if !ok {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "render_unknown_page", slog.String("page", name))
		http.Error(writer, "An unexpected error occurred", http.StatusInternalServerError)
		return
	}

	var buffer bytes.Buffer
	if err := page.ExecuteTemplate(&buffer, layoutTemplate, data); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "render_failed",
			slog.String("page", name),
			slog.Any("error", err),
		)
		http.Error(writer, "An unexpected error occurred", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	_, _ = buffer.WriteTo(writer)
}

// # Template Functions

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// initials is the avatar placeholder text for a profile without a picture.
func initials(profile models.Profile) string {
	var letters []rune
	for _, part := range strings.Fields(profile.DisplayName()) {
		letters = append(letters, []rune(part)[0])
		if len(letters) == 2 {
			break
		}
	}
	if len(letters) == 0 {
		return "?"
	}
	return strings.ToUpper(string(letters))
}

// markdown renders user-written markdown to sanitized HTML.
type markdown struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
}

func newMarkdown() *markdown {
	return &markdown{engine: goldmark.New(), policy: bluemonday.UGCPolicy()}
}

func (m *markdown) render(source string) template.HTML {
	var buffer bytes.Buffer
	if err := m.engine.Convert([]byte(source), &buffer); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(m.policy.SanitizeBytes(buffer.Bytes()))
}
