package handlers

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"

	"boilerquote/errs"
	"boilerquote/quote"
	"boilerquote/services"
	"boilerquote/session"
)

// buildExportData snapshots the quote once; every format is rendered from
// the returned pair.
func buildExportData(reg *Registry, sess *session.Session) (quote.Export, services.ExportData) {
	exp := sess.Export(reg.Now())
	return exp, services.NewExportData(sess.Catalog(), exp, reg.CompanyName(), ExportReference(sess.ID()))
}

// ExportReference is the short reference printed on documents.
func ExportReference(quoteID string) string {
	if id, err := uuid.Parse(quoteID); err == nil {
		return "Q-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	}
	return "Q-" + strings.ToUpper(quoteID)
}

// HandleQuoteExport downloads the quote as PDF, Excel, JSON or a zip of all three.
func HandleQuoteExport(reg *Registry) func(*core.RequestEvent) error {
	return withSession(reg, func(e *core.RequestEvent, sess *session.Session) error {
		format := e.Request.PathValue("format")
		exp, data := buildExportData(reg, sess)

		body, err := services.Render(e.Request.Context(), format, exp, data)
		if err != nil {
			var unknown *services.UnknownFormatError
			if errors.As(err, &unknown) {
				return respondError(e, reg.Logger(), errs.New(errs.CodeValidation, err.Error()).
					WithDetails(map[string]string{"format": "must be one of " + strings.Join(services.ExportFormats(), " ")}))
			}
			return respondError(e, reg.Logger(), errs.Wrap(errs.CodeExport, err, "render "+format))
		}

		log := reg.Logger()
		ctx := log.WithFields(log.WithQuoteID(e.Request.Context(), sess.ID()), map[string]any{
			"format": format,
			"bytes":  len(body),
		})
		log.Info(ctx, "quote exported")

		return writeDownload(e, services.ContentType(format), services.FileName(exp, format), body)
	})
}

// HandleQuoteSummary renders the printable HTML summary.
func HandleQuoteSummary(reg *Registry) func(*core.RequestEvent) error {
	return withSession(reg, func(e *core.RequestEvent, sess *session.Session) error {
		_, data := buildExportData(reg, sess)
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return services.SummaryComponent(data).Render(e.Request.Context(), e.Response)
	})
}
