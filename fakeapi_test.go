package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeAPI is an in memory portfolio API recording the calls it receives.
type fakeAPI struct {
	t *testing.T

	mu        sync.Mutex
	responses map[string]string // "/trades/list" -> json body
	status    map[string]int    // "/trades/list" -> forced status
	calls     []string          // "GET /charts/get?filter=x"
	bodies    map[string][]map[string]any
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	f := &fakeAPI{
		t:         t,
		responses: make(map[string]string),
		status:    make(map[string]int),
		bodies:    make(map[string][]map[string]any),
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, WithRetry(NoRetry))
	if err != nil {
		t.Fatalf("NewClient(%q) unexpected error: %v", srv.URL, err)
	}
	return f, c
}

// on sets the body served for path.
func (f *fakeAPI) on(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[path] = body
}

// fail makes path answer with status.
func (f *fakeAPI) fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[path] = status
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Posted returns the JSON bodies posted to path.
func (f *fakeAPI) Posted(path string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		call += "?" + r.URL.RawQuery
	}
	f.calls = append(f.calls, call)

	if r.Method == http.MethodPost {
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(data, &body); err != nil {
			f.t.Errorf("%s: invalid JSON body %q: %v", call, data, err)
		}
		f.bodies[r.URL.Path] = append(f.bodies[r.URL.Path], body)
	}

	if code, ok := f.status[r.URL.Path]; ok {
		http.Error(w, http.StatusText(code), code)
		return
	}
	body, ok := f.responses[r.URL.Path]
	if !ok {
		if r.Method == http.MethodPost {
			body = `{"status":"ok"}`
		} else {
			http.NotFound(w, r)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

// recordingHost is a Host keeping track of the heading and of the busy signal.
type recordingHost struct {
	heading string
	busy    Busy
	begun   []string
}

func (h *recordingHost) SetHeading(name string) { h.heading = name }

func (h *recordingHost) Begin(op string) func() {
	h.begun = append(h.begun, op)
	return h.busy.Begin(op)
}

const instrumentsJSON = `{"instruments":[
	{"ticker":"AAPL","currency":"USD","type":"stock","evaluation":"yfinance","eval_param":"","dividend_currency":"USD"},
	{"ticker":"BTC","currency":"EUR","type":"crypto","evaluation":"http","eval_param":"https://x","dividend_currency":""},
	{"ticker":"SAVINGS","currency":"EUR","type":"account","evaluation":"manual","eval_param":"","dividend_currency":""}
]}`
