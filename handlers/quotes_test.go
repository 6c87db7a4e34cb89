package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"boilerquote/collections"
	"boilerquote/errs"
	"boilerquote/quote"
)

func TestHandleQuoteCreate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, HandleQuoteCreate(env.reg), http.MethodPost, "/api/quotes", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	got := decode[quoteResponse](t, rec)
	if got.ID != "q-1" {
		t.Errorf("id = %q, want %q", got.ID, "q-1")
	}
	if got.Selection.LabourRate != 65 {
		t.Errorf("labour rate = %v, want 65", got.Selection.LabourRate)
	}
	if len(got.Pricing.Lines) != 0 {
		t.Errorf("empty quote has %d lines", len(got.Pricing.Lines))
	}
	if got.Checks.Clearance.Status != quote.CheckIncomplete {
		t.Errorf("clearance = %q, want %q", got.Checks.Clearance.Status, quote.CheckIncomplete)
	}
}

func TestHandleQuoteView_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, HandleQuoteView(env.reg), http.MethodGet, "/api/quotes/missing", "", "id", "missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	body := decode[errorBody](t, rec)
	if body.Code != errs.CodeNotFound {
		t.Errorf("code = %q, want %q", body.Code, errs.CodeNotFound)
	}
}

func TestHandleQuoteList_IncludesUnsavedQuotes(t *testing.T) {
	env := newTestEnv(t)
	id := env.createQuote(t)
	env.mutate(t, id, "lead", `{"value":"LD-77"}`)

	rec := env.call(t, HandleQuoteList(env.reg), http.MethodGet, "/api/quotes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	list := decode[[]collections.QuoteSummary](t, rec)
	if len(list) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(list))
	}
	if list[0].ID != id || list[0].Lead != "LD-77" {
		t.Errorf("listed quote = %+v", list[0])
	}
}

func TestHandleQuoteDelete(t *testing.T) {
	env := newTestEnv(t)
	id := env.createQuote(t)

	rec := env.call(t, HandleQuoteDelete(env.reg), http.MethodDelete, "/api/quotes/"+id, "", "id", id)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d; body: %s", rec.Code, http.StatusNoContent, rec.Body.String())
	}
	if env.persister.Pending() != 0 {
		t.Errorf("deleted quote still has %d pending saves", env.persister.Pending())
	}

	rec = env.call(t, HandleQuoteView(env.reg), http.MethodGet, "/api/quotes/"+id, "", "id", id)
	if rec.Code != http.StatusNotFound {
		t.Errorf("view after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = env.call(t, HandleQuoteDelete(env.reg), http.MethodDelete, "/api/quotes/"+id, "", "id", id)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRegistry_RestoresSavedQuote(t *testing.T) {
	env := newTestEnv(t)
	id := env.createQuote(t)
	env.mutate(t, id, "system", `{"systemId":"new_combi"}`)
	env.mutate(t, id, "boiler", `{"boilerId":"wb-4000-30c"}`)
	env.persister.Flush(context.Background())

	// A second registry over the same store, as after a restart.
	restarted := newTestRegistry(t, env.store, env.persister)
	sess, err := restarted.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got := sess.Snapshot().BoilerID; got != "wb-4000-30c" {
		t.Errorf("restored boiler = %q, want %q", got, "wb-4000-30c")
	}
}

func TestHandleQuoteImport(t *testing.T) {
	env := newTestEnv(t)

	rec := env.call(t, HandleQuoteImport(env.reg), http.MethodPost, "/api/quotes/import",
		`{"lead":"LD-9","labourRate":80,"boilerId":"wb-4000-30c","components":{"comp-trv":2,"comp-filter":0}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	got := decode[quoteResponse](t, rec)
	if got.Selection.Lead != "LD-9" || got.Selection.LabourRate != 80 {
		t.Errorf("imported selection = %+v", got.Selection)
	}
	if _, ok := got.Selection.Components["comp-filter"]; ok {
		t.Error("zero quantity component should be dropped on import")
	}
	if got.Pricing.Totals.LabourRate != 80 {
		t.Errorf("totals labour rate = %v, want 80", got.Pricing.Totals.LabourRate)
	}
}

func TestHandleQuoteImport_Malformed(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{"", "not json", `["array"]`} {
		rec := env.call(t, HandleQuoteImport(env.reg), http.MethodPost, "/api/quotes/import", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("import %q: status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestHandleQuoteMerge_KeepsAbsentFields(t *testing.T) {
	env := newTestEnv(t)
	id := env.createQuote(t)
	env.mutate(t, id, "boiler", `{"boilerId":"wb-4000-30c"}`)

	rec := env.call(t, HandleQuoteMerge(env.reg), http.MethodPost, "/api/quotes/"+id+"/import", `{"lead":"LD-10"}`, "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	got := decode[quoteResponse](t, rec)
	if got.Selection.Lead != "LD-10" {
		t.Errorf("lead = %q, want %q", got.Selection.Lead, "LD-10")
	}
	if got.Selection.BoilerID != "wb-4000-30c" {
		t.Errorf("boiler = %q, want it kept", got.Selection.BoilerID)
	}
}

func TestHandleQuoteReset(t *testing.T) {
	env := newTestEnv(t)
	id := env.createQuote(t)
	env.mutate(t, id, "labour-rate", `{"rate":70}`)
	env.mutate(t, id, "boiler", `{"boilerId":"wb-4000-30c"}`)

	rec := env.call(t, HandleQuoteReset(env.reg), http.MethodPost, "/api/quotes/"+id+"/reset", "", "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	got := decode[quoteResponse](t, rec)
	if got.Selection.BoilerID != "" {
		t.Errorf("boiler = %q, want cleared", got.Selection.BoilerID)
	}
	if got.Selection.LabourRate != 70 {
		t.Errorf("labour rate = %v, want it kept at 70", got.Selection.LabourRate)
	}

	rec = env.call(t, HandleQuoteReset(env.reg), http.MethodPost, "/api/quotes/"+id+"/reset", `{"labourRate":55}`, "id", id)
	if got := decode[quoteResponse](t, rec).Selection.LabourRate; got != 55 {
		t.Errorf("labour rate after reset with body = %v, want 55", got)
	}
}

func TestHandleQuotePricingAndChecks(t *testing.T) {
	env := newTestEnv(t)
	id := env.createQuote(t)
	env.mutate(t, id, "boiler", `{"boilerId":"wb-4000-30c"}`)
	env.mutate(t, id, "measurements", `{"hwd":"800 x 450 x 320"}`)
	env.mutate(t, id, "customer", `{"customerId":"cust-gone"}`)

	rec := env.call(t, HandleQuotePricing(env.reg), http.MethodGet, "/api/quotes/"+id+"/pricing", "", "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("pricing status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, frag := range []string{`"lines"`, `"boiler:wb-4000-30c"`, `"totals"`, `"grandTotal"`, `"customerId"`} {
		if !strings.Contains(body, frag) {
			t.Errorf("pricing body missing %s: %s", frag, body)
		}
	}

	rec = env.call(t, HandleQuoteChecks(env.reg), http.MethodGet, "/api/quotes/"+id+"/checks", "", "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("checks status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"pass"`) {
		t.Errorf("expected a passing clearance check: %s", rec.Body.String())
	}
}
