package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"boilerquote/catalog"
	"boilerquote/errs"
)

// HandleCatalog returns the whole price book the form is built from.
func HandleCatalog(reg *Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := reg.Catalog()
		if cat == nil {
			return respondError(e, reg.Logger(), errs.New(errs.CodeCatalogLoad, "no price book loaded"))
		}
		return e.JSON(http.StatusOK, cat.Document())
	}
}

// HandleEligibleBoilers lists the boilers offered for ?system=. Without a
// system, or for a system with no boiler type, every boiler is offered.
func HandleEligibleBoilers(reg *Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := reg.Catalog()
		if cat == nil {
			return respondError(e, reg.Logger(), errs.New(errs.CodeCatalogLoad, "no price book loaded"))
		}
		boilers := cat.EligibleBoilers(e.Request.URL.Query().Get("system"))
		if boilers == nil {
			boilers = []catalog.Boiler{}
		}
		return e.JSON(http.StatusOK, boilers)
	}
}

// HandleEligibleFlues lists the flues the ?boiler= accepts, in the boiler's order.
func HandleEligibleFlues(reg *Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := reg.Catalog()
		if cat == nil {
			return respondError(e, reg.Logger(), errs.New(errs.CodeCatalogLoad, "no price book loaded"))
		}
		boilerID := e.Request.URL.Query().Get("boiler")
		if boilerID == "" {
			return respondError(e, reg.Logger(), errs.New(errs.CodeValidation, "boiler is required").
				WithDetails(map[string]string{"boiler": "is required"}))
		}
		flues := cat.EligibleFlues(boilerID)
		if flues == nil {
			flues = []catalog.Flue{}
		}
		return e.JSON(http.StatusOK, flues)
	}
}

// HandleSnippets returns the quick-note lines for {category}.
func HandleSnippets(reg *Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cat := reg.Catalog()
		if cat == nil {
			return respondError(e, reg.Logger(), errs.New(errs.CodeCatalogLoad, "no price book loaded"))
		}
		lines := cat.Snippets(e.Request.PathValue("category"))
		if lines == nil {
			lines = []string{}
		}
		return e.JSON(http.StatusOK, lines)
	}
}
