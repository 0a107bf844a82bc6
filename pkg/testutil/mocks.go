// Package testutil holds test doubles and assertions shared by the check
// packages.
package testutil

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/vertti/lxstarter/pkg/check"
)

// MockHTTPClient is a test double for HTTP clients.
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
	Calls  int
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.Calls++
	return m.DoFunc(req)
}

// MockResponse creates an http.Response with given status and body.
func MockResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// MockPinger is a test double for connectivity probes.
type MockPinger struct {
	Err   error
	Calls int
}

func (m *MockPinger) Ping(context.Context) error {
	m.Calls++
	return m.Err
}

// Ptr returns a pointer to the value (useful for optional fields in tests).
func Ptr[T any](v T) *T {
	return &v
}

// ContainsLine reports whether any line at level contains substr.
func ContainsLine(lines []check.Line, level check.Level, substr string) bool {
	for _, l := range lines {
		if l.Level == level && strings.Contains(l.Text, substr) {
			return true
		}
	}
	return false
}
