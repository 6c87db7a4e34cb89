package handlers

import (
	"io"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"boilerquote/errs"
	"boilerquote/quote"
	"boilerquote/session"
)

// maxImportSize bounds an imported snapshot document.
const maxImportSize = 4 << 20

// quoteResponse is a quote with everything derived from it, all computed from
// the same snapshot.
type quoteResponse struct {
	ID        string          `json:"id"`
	Selection quote.State     `json:"selection"`
	Pricing   session.Pricing `json:"pricing"`
	Checks    session.Checks  `json:"checks"`
}

func describe(sess *session.Session, st quote.State) quoteResponse {
	cat := sess.Catalog()
	lines, totals := quote.Price(cat, st)
	if lines == nil {
		lines = []quote.Line{}
	}
	warnings := quote.UnresolvedReferences(cat, st)
	if warnings == nil {
		warnings = []quote.Warning{}
	}
	return quoteResponse{
		ID:        sess.ID(),
		Selection: st,
		Pricing:   session.Pricing{Lines: lines, Totals: totals, Warnings: warnings},
		Checks: session.Checks{
			Clearance: quote.CheckClearance(cat, st),
			Headroom:  quote.CheckHeadroom(cat, st),
		},
	}
}

// HandleQuoteCreate starts an empty quote.
func HandleQuoteCreate(reg *Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sess, err := reg.Create(e.Request.Context())
		if err != nil {
			return respondError(e, reg.Logger(), err)
		}
		return e.JSON(http.StatusCreated, describe(sess, sess.Snapshot()))
	}
}

// HandleQuoteList lists the quotes saved on this device.
func HandleQuoteList(reg *Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, err := reg.List(e.Request.Context())
		if err != nil {
			return respondError(e, reg.Logger(), err)
		}
		return e.JSON(http.StatusOK, list)
	}
}

// HandleQuoteView returns one quote with its pricing and checks.
func HandleQuoteView(reg *Registry) func(*core.RequestEvent) error {
	return withSession(reg, func(e *core.RequestEvent, sess *session.Session) error {
		return e.JSON(http.StatusOK, describe(sess, sess.Snapshot()))
	})
}

// HandleQuoteDelete discards a quote and its saved snapshot.
func HandleQuoteDelete(reg *Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return respondError(e, reg.Logger(), errs.New(errs.CodeValidation, "missing quote id"))
		}
		if err := reg.Delete(e.Request.Context(), id); err != nil {
			return respondError(e, reg.Logger(), err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleQuotePricing returns the priced lines, totals and unresolved
// references of a quote.
func HandleQuotePricing(reg *Registry) func(*core.RequestEvent) error {
	return withSession(reg, func(e *core.RequestEvent, sess *session.Session) error {
		return e.JSON(http.StatusOK, describe(sess, sess.Snapshot()).Pricing)
	})
}

// HandleQuoteChecks returns the clearance and headroom checks of a quote.
func HandleQuoteChecks(reg *Registry) func(*core.RequestEvent) error {
	return withSession(reg, func(e *core.RequestEvent, sess *session.Session) error {
		return e.JSON(http.StatusOK, sess.Checks())
	})
}

type resetRequest struct {
	LabourRate *float64 `json:"labourRate"`
}

// HandleQuoteReset clears a quote. The labour rate is kept unless the body
// sets a new one.
func HandleQuoteReset(reg *Registry) func(*core.RequestEvent) error {
	return withSession(reg, func(e *core.RequestEvent, sess *session.Session) error {
		var req resetRequest
		if e.Request.ContentLength != 0 {
			if err := bindRequest(e, &req); err != nil {
				return respondError(e, reg.Logger(), err)
			}
		}
		rate := sess.Snapshot().LabourRate
		if req.LabourRate != nil {
			rate = *req.LabourRate
		}
		st := sess.Reset(e.Request.Context(), rate)
		return e.JSON(http.StatusOK, describe(sess, st))
	})
}

// HandleQuoteImport starts a new quote from an exported snapshot document.
func HandleQuoteImport(reg *Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		raw, err := readBody(e)
		if err != nil {
			return respondError(e, reg.Logger(), err)
		}
		sess, err := reg.CreateFrom(e.Request.Context(), raw)
		if err != nil {
			return respondError(e, reg.Logger(), err)
		}
		return e.JSON(http.StatusCreated, describe(sess, sess.Snapshot()))
	}
}

// HandleQuoteMerge merges a snapshot document over an existing quote. Fields
// absent from the document are kept.
func HandleQuoteMerge(reg *Registry) func(*core.RequestEvent) error {
	return withSession(reg, func(e *core.RequestEvent, sess *session.Session) error {
		raw, err := readBody(e)
		if err != nil {
			return respondError(e, reg.Logger(), err)
		}
		st, err := sess.Import(e.Request.Context(), raw)
		if err != nil {
			return respondError(e, reg.Logger(), err)
		}
		return e.JSON(http.StatusOK, describe(sess, st))
	})
}

// withSession resolves {id} to an open session before calling fn.
func withSession(reg *Registry, fn func(*core.RequestEvent, *session.Session) error) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return respondError(e, reg.Logger(), errs.New(errs.CodeValidation, "missing quote id"))
		}
		sess, err := reg.Get(e.Request.Context(), id)
		if err != nil {
			return respondError(e, reg.Logger(), err)
		}
		return fn(e, sess)
	}
}

func readBody(e *core.RequestEvent) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(e.Request.Body, maxImportSize+1))
	if err != nil {
		return nil, errs.Wrap(errs.CodeValidation, err, "read request body")
	}
	if len(raw) > maxImportSize {
		return nil, errs.New(errs.CodeValidation, "snapshot document too large")
	}
	if len(raw) == 0 {
		return nil, errs.New(errs.CodeValidation, "snapshot document is empty")
	}
	return raw, nil
}
