package main

import (
	"context"

	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/urfave/cli/v3"
)

// WebPageLookup resolves a URL to its Genius web page.
func (r *Runner) WebPageLookup(ctx context.Context, cmd *cli.Command) error {
	wq := services.WebPageQuery{
		RawAnnotatableURL: cmd.String("raw-url"),
		CanonicalURL:      cmd.String("canonical-url"),
		OGURL:             cmd.String("og-url"),
	}

	page, err := r.client.WebPage(ctx, wq)
	if err != nil {
		return err
	}

	source := wq.RawAnnotatableURL
	if source == "" {
		source = wq.CanonicalURL + wq.OGURL
	}

	return r.emit(cmd, output{
		kind:   "web_page",
		source: source,
		title:  "web_page",
		table:  page.Table(records.WebPageSchema),
		raw:    page.Document,
		single: true,
	})
}
