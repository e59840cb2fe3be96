package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"logistics-console/internal/domain"
	"logistics-console/internal/service/listing"
)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	return tw
}

func row(w io.Writer, cols ...string) {
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

func pageFooter[T any](w io.Writer, p listing.Page[T]) {
	pages := p.TotalPages
	if pages == 0 {
		pages = 1
	}
	fmt.Fprintf(w, "page %d/%d, %d item(s)\n", p.Number, pages, p.TotalItems)
}

func dateLabel(t time.Time) string {
	if t.IsZero() {
		return domain.NotAvailable
	}
	return t.Local().Format("2006-01-02 15:04")
}

func optID(id *int64) string {
	if id == nil {
		return domain.NotAvailable
	}
	return strconv.FormatInt(*id, 10)
}

func orEmpty(s string) string {
	if s == "" {
		return domain.NotAvailable
	}
	return s
}
