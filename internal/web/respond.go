package web

import (
	"encoding/json"
	"html/template"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/learndash/internal/auth"
	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/session"
	"github.com/desertthunder/learndash/internal/shared"
)

var templateFuncs = template.FuncMap{
	"count": shared.FormatCount,
	"stars": shared.FormatStars,
}

// flowResponse is the JSON body of the login, signup and reset endpoints.
type flowResponse struct {
	Phase       session.Phase         `json:"phase"`
	FieldErrors map[auth.Field]string `json:"field_errors"`
	Alerts      []session.Alert       `json:"alerts"`
	Shake       bool                  `json:"shake"`
	Redirect    string                `json:"redirect,omitempty"`
	User        *models.PublicUser    `json:"user,omitempty"`
}

func newFlowResponse(phase session.Phase, rec *session.Recorder) flowResponse {
	fields, alerts := rec.Snapshot()
	if alerts == nil {
		alerts = []session.Alert{}
	}
	return flowResponse{
		Phase:       phase,
		FieldErrors: fields,
		Alerts:      alerts,
		Shake:       rec.Shaken,
		Redirect:    rec.Redirect,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response", "error", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, errorResponse{Error: message})
}

func (a *App) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := a.templates.ExecuteTemplate(w, name, data); err != nil {
		a.logger.Error("failed to render template", "template", name, "error", err)
	}
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func wantsJSON(r *http.Request) bool {
	return isJSON(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

// decodeInput reads a JSON body into dst, or hands a parsed form post to fromForm.
func decodeInput(r *http.Request, dst any, fromForm func(form url.Values)) error {
	if isJSON(r) {
		return json.NewDecoder(r.Body).Decode(dst)
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	fromForm(r.PostForm)
	return nil
}

func formBool(v string) bool {
	return v == "on" || v == "true" || v == "1"
}
