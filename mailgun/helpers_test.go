package mailgun

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testDomain = "mg.example.com"

// captured is a request as seen by the fake API
type captured struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	Values        map[string][]string
	Files         map[string][]*multipart.FileHeader
}

type fakeAPI struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	requests []captured
	status   int
	body     string
}

func newFakeAPI(t *testing.T, status int, body string) *fakeAPI {
	t.Helper()

	f := &fakeAPI{t: t, status: status, body: body}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	c := captured{
		Method:        r.Method,
		Path:          r.URL.EscapedPath(),
		Query:         r.URL.Query(),
		Authorization: r.Header.Get("Authorization"),
	}

	if r.Body != nil && r.ContentLength != 0 && r.Method != http.MethodGet {
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			c.Values = r.MultipartForm.Value
			c.Files = r.MultipartForm.File
		}
	}
	if c.Values == nil {
		c.Values = map[string][]string{}
	}

	f.mu.Lock()
	f.requests = append(f.requests, c)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func (f *fakeAPI) last() captured {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(f.t, f.requests, "no request reached the fake API")
	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) client(opts ...Option) *Client {
	f.t.Helper()

	opts = append([]Option{WithBaseURL(f.server.URL)}, opts...)
	c, err := NewClient(testDomain, "key-test", nopLogger(), opts...)
	require.NoError(f.t, err)
	f.t.Cleanup(c.Close)
	return c
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
