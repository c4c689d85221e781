package session

import (
	"sync"

	"github.com/desertthunder/learndash/internal/auth"
)

// AlertType is the style of an alert message.
type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertError   AlertType = "error"
	AlertInfo    AlertType = "info"
)

// Presenter receives the visible effects of the session flows.
//
// Implementations render them: the web layer collects them into a JSON response, the CLI prints them.
type Presenter interface {
	ShowFieldError(field auth.Field, message string)
	ClearFieldError(field auth.Field)
	ClearAll()
	ShowAlert(kind AlertType, message string)
	SetLoading(loading bool)
	Shake()
	Navigate(url string)
}

// Alert is one alert shown by a [Presenter].
type Alert struct {
	Type    AlertType `json:"type"`
	Message string    `json:"message"`
}

// Recorder is a [Presenter] that keeps the current visible state in memory.
//
// ClearAll drops field errors and alerts. Events lists every call in order, for tests and logs.
type Recorder struct {
	mu          sync.Mutex
	FieldErrors map[auth.Field]string
	Alerts      []Alert
	Loading     bool
	Shaken      bool
	Redirect    string
	Events      []string
}

func NewRecorder() *Recorder {
	return &Recorder{FieldErrors: make(map[auth.Field]string)}
}

func (r *Recorder) ShowFieldError(field auth.Field, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FieldErrors[field] = message
	r.Events = append(r.Events, "field_error:"+string(field))
}

func (r *Recorder) ClearFieldError(field auth.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.FieldErrors, field)
	r.Events = append(r.Events, "clear_field:"+string(field))
}

func (r *Recorder) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.FieldErrors)
	r.Alerts = nil
	r.Events = append(r.Events, "clear_all")
}

func (r *Recorder) ShowAlert(kind AlertType, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Alerts = append(r.Alerts, Alert{Type: kind, Message: message})
	r.Events = append(r.Events, "alert:"+string(kind))
}

func (r *Recorder) SetLoading(loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Loading = loading
	if loading {
		r.Events = append(r.Events, "loading:on")
	} else {
		r.Events = append(r.Events, "loading:off")
	}
}

func (r *Recorder) Shake() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Shaken = true
	r.Events = append(r.Events, "shake")
}

func (r *Recorder) Navigate(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Redirect = url
	r.Events = append(r.Events, "navigate")
}

// Snapshot returns copies of the field errors and alerts.
func (r *Recorder) Snapshot() (map[auth.Field]string, []Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fields := make(map[auth.Field]string, len(r.FieldErrors))
	for k, v := range r.FieldErrors {
		fields[k] = v
	}
	return fields, append([]Alert(nil), r.Alerts...)
}

type nopPresenter struct{}

func (nopPresenter) ShowFieldError(auth.Field, string) {}
func (nopPresenter) ClearFieldError(auth.Field)        {}
func (nopPresenter) ClearAll()                         {}
func (nopPresenter) ShowAlert(AlertType, string)       {}
func (nopPresenter) SetLoading(bool)                   {}
func (nopPresenter) Shake()                            {}
func (nopPresenter) Navigate(string)                   {}
