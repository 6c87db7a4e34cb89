package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// SummaryComponent renders the quote as a small standalone HTML page the
// engineer can show on screen or print.
func SummaryComponent(data ExportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		esc := templ.EscapeString[string]

		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		b.WriteString(esc(data.Title))
		b.WriteString(`</title></head><body class="quote-summary">`)

		fmt.Fprintf(&b, `<h1>%s</h1>`, esc(data.Title))
		if data.CompanyName != "" {
			fmt.Fprintf(&b, `<p class="company">%s</p>`, esc(data.CompanyName))
		}
		fmt.Fprintf(&b, `<p class="meta">Ref %s &middot; %s &middot; price book %s</p>`,
			esc(data.ReferenceNumber), esc(data.CreatedDate), esc(data.CatalogVersion))

		if len(data.CustomerLines) > 0 {
			b.WriteString(`<address>`)
			for i, l := range data.CustomerLines {
				if i > 0 {
					b.WriteString(`<br>`)
				}
				b.WriteString(esc(l))
			}
			b.WriteString(`</address>`)
		}

		b.WriteString(`<table class="lines"><thead><tr><th>#</th><th>Section</th><th>Description</th><th>Hours</th><th>Cost</th></tr></thead><tbody>`)
		for _, r := range data.Rows {
			fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td class="num">%s</td><td class="num">%s</td></tr>`,
				esc(r.Index), esc(r.Section), esc(r.Description), esc(formatQty(r.Hours)), esc(FormatGBP(r.Cost)))
		}
		b.WriteString(`</tbody><tfoot>`)
		fmt.Fprintf(&b, `<tr><th colspan="4">Parts</th><td class="num">%s</td></tr>`, esc(FormatGBP(data.Parts)))
		fmt.Fprintf(&b, `<tr><th colspan="4">Labour (%s @ %s/hr)</th><td class="num">%s</td></tr>`,
			esc(FormatHours(data.Hours)), esc(FormatGBP(data.LabourRate)), esc(FormatGBP(data.Labour)))
		fmt.Fprintf(&b, `<tr class="total"><th colspan="4">Grand total</th><td class="num">%s</td></tr>`, esc(FormatGBP(data.GrandTotal)))
		b.WriteString(`</tfoot></table>`)

		for _, block := range []struct{ class, title, body string }{
			{"checks", "Checks", strings.Join(nonEmpty(data.Clearance, data.Headroom), "\n")},
			{"summary", "Summary", data.Summary},
			{"spec", "Specification", data.Spec},
			{"notes", "Installation notes", data.Notes},
		} {
			if strings.TrimSpace(block.body) == "" {
				continue
			}
			fmt.Fprintf(&b, `<section class="%s"><h2>%s</h2><pre>%s</pre></section>`, block.class, esc(block.title), esc(block.body))
		}

		b.WriteString(`</body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
