package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boilerquote/collections"
	"boilerquote/session"
	"boilerquote/testhelpers"
)

var testNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

type testEnv struct {
	app       *pocketbase.PocketBase
	store     *collections.Store
	persister *session.Persister
	reg       *Registry
}

// newTestEnv wires a registry to a fresh test app. Saves are only written
// when the persister is flushed.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	app := testhelpers.NewTestApp(t)
	store := collections.NewStore(app)
	persister := session.NewPersister(store, time.Hour, nil)
	t.Cleanup(func() { persister.Flush(context.Background()) })

	return &testEnv{
		app:       app,
		store:     store,
		persister: persister,
		reg:       newTestRegistry(t, store, persister),
	}
}

func newTestRegistry(t *testing.T, store QuoteStore, persister *session.Persister) *Registry {
	t.Helper()

	ids := 0
	return NewRegistry(testhelpers.DefaultCatalog(t), store, RegistryOptions{
		LabourRate:  65,
		CompanyName: "Northern Heating Ltd",
		Persister:   persister,
		Now:         func() time.Time { return testNow },
		NewID: func() string {
			ids++
			return fmt.Sprintf("q-%d", ids)
		},
	})
}

// call runs h against a request built from method, target and an optional
// JSON body. pathValues are set as the router would.
func (env *testEnv) call(t *testing.T, h func(*core.RequestEvent) error, method, target, body string, pathValues ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	rec := httptest.NewRecorder()

	if err := h(newTestRequestEvent(env.app, req, rec)); err != nil {
		t.Fatalf("%s %s: handler error: %v", method, target, err)
	}
	return rec
}

// createQuote creates a quote through the handler and returns its id.
func (env *testEnv) createQuote(t *testing.T) string {
	t.Helper()

	rec := env.call(t, HandleQuoteCreate(env.reg), http.MethodPost, "/api/quotes", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create quote: status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	return decode[quoteResponse](t, rec).ID
}

// mutate posts body to the named operation and returns the decoded quote.
func (env *testEnv) mutate(t *testing.T, id, op, body string) quoteResponse {
	t.Helper()

	rec := env.call(t, HandleQuoteMutation(env.reg), http.MethodPost, "/api/quotes/"+id+"/"+op, body, "id", id, "op", op)
	if rec.Code != http.StatusOK {
		t.Fatalf("%s: status = %d, want 200; body: %s", op, rec.Code, rec.Body.String())
	}
	return decode[quoteResponse](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v; body: %s", err, rec.Body.String())
	}
	return v
}
