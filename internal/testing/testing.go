// Package testing contains shared test doubles and filesystem assertions.
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/learndash/internal/models"
)

// FailingBackend satisfies the storage backend interface and fails every call with Err.
//
// It counts calls so tests can assert that nothing was attempted.
type FailingBackend struct {
	Err   error
	Calls int
}

func NewFailingBackend() *FailingBackend {
	return &FailingBackend{Err: errors.New("storage unavailable")}
}

func (f *FailingBackend) Get(context.Context, string, string) (string, bool, error) {
	f.Calls++
	return "", false, f.Err
}

func (f *FailingBackend) Set(context.Context, string, string, string) error {
	f.Calls++
	return f.Err
}

func (f *FailingBackend) Remove(context.Context, string, string) error {
	f.Calls++
	return f.Err
}

func (f *FailingBackend) Close() error { return nil }

// MockProvider is a test double for the social login provider.
type MockProvider struct {
	Profile  *models.SocialProfile
	Err      error
	LastCode string
}

func (m *MockProvider) Name() string { return "google" }

func (m *MockProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (*models.SocialProfile, error) {
	m.LastCode = code
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Profile, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
