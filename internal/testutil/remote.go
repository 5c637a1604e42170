package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Remote file contents served by RemoteServer.
const (
	ContributingBody = "# Contributing\n\nWe welcome contributions.\n"
	LicenseBody      = "# License\n\nThis project is in the public domain.\n"
	GitignoreBody    = "__pycache__/\n*.py[cod]\ndb.sqlite3\n"
)

// RemoteServer serves the policy files and the gitignore baseline.
type RemoteServer struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []string
	fail      map[string]int
	gitignore string
}

// NewRemoteServer starts a server that is closed when the test ends.
func NewRemoteServer(t *testing.T) *RemoteServer {
	t.Helper()

	rs := &RemoteServer{fail: map[string]int{}, gitignore: GitignoreBody}
	rs.Server = httptest.NewServer(http.HandlerFunc(rs.serve))
	t.Cleanup(rs.Close)
	return rs
}

// PolicyBaseURL is the value for remote.policy_base_url.
func (rs *RemoteServer) PolicyBaseURL() string {
	return rs.URL + "/policy"
}

// GitignoreURL is the value for remote.gitignore_url.
func (rs *RemoteServer) GitignoreURL() string {
	return rs.URL + "/gitignore/Python.gitignore"
}

// FailPath makes requests for path answer with status.
func (rs *RemoteServer) FailPath(path string, status int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.fail[path] = status
}

// SetGitignore replaces the served gitignore baseline.
func (rs *RemoteServer) SetGitignore(body string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.gitignore = body
}

// Requests returns the request paths received so far.
func (rs *RemoteServer) Requests() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.requests...)
}

func (rs *RemoteServer) serve(w http.ResponseWriter, r *http.Request) {
	rs.mu.Lock()
	rs.requests = append(rs.requests, r.URL.Path)
	status, failing := rs.fail[r.URL.Path]
	gitignore := rs.gitignore
	rs.mu.Unlock()

	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, "/CONTRIBUTING.md"):
		_, _ = w.Write([]byte(ContributingBody))
	case strings.HasSuffix(r.URL.Path, "/LICENSE.md"):
		_, _ = w.Write([]byte(LicenseBody))
	case strings.HasSuffix(r.URL.Path, ".gitignore"):
		_, _ = w.Write([]byte(gitignore))
	default:
		http.NotFound(w, r)
	}
}
