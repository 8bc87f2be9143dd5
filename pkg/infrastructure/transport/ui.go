package transport

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/netassist/netconfig-assist/pkg/domain/generation"
	"github.com/netassist/netconfig-assist/pkg/domain/policy"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTitle heads the UI page.
const PageTitle = "Intelligent Network Configuration Assistant"

type uiRenderer struct {
	index *template.Template
}

type pageData struct {
	Title      string
	Policies   []policy.Policy
	Selected   policy.Policy
	Prompt     string
	Generation *generation.Generation
	Warning    string
	Error      string
}

func newUIRenderer() (*uiRenderer, error) {
	index, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &uiRenderer{index: index}, nil
}

func (t *HTTPTransport) newPage(selected string) pageData {
	data := pageData{
		Title:    PageTitle,
		Policies: t.assistant.Policies(),
		Selected: t.assistant.DefaultPolicy(),
	}
	if selected != "" {
		if p, err := t.assistant.Policy(selected); err == nil {
			data.Selected = p
		}
	}
	return data
}

func (t *HTTPTransport) handleIndex(w http.ResponseWriter, r *http.Request) {
	t.renderPage(w, http.StatusOK, t.newPage(r.URL.Query().Get("policy")))
}

func (t *HTTPTransport) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseForm(); err != nil {
		data := t.newPage("")
		data.Error = "Could not read the submitted form."
		t.renderPage(w, http.StatusBadRequest, data)
		return
	}

	// An unknown posted policy surfaces as NOT_FOUND; it is never defaulted.
	posted := r.PostFormValue("policy")
	data := t.newPage(posted)
	data.Prompt = r.PostFormValue("prompt")

	g, err := t.assistant.Generate(r.Context(), generation.Request{
		PolicyName: posted,
		Prompt:     data.Prompt,
	})
	switch {
	case err == nil:
		data.Generation = g
	case errors.CodeOf(err) == errors.CodeMissingParameter:
		data.Warning = errors.MessageOf(err)
	default:
		data.Error = "An error occurred: " + errors.MessageOf(err)
	}

	t.renderPage(w, http.StatusOK, data)
}

func (t *HTTPTransport) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := t.ui.index.Execute(&buf, data); err != nil {
		t.logger.Error().Err(err).Msg("Failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
