package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/urfave/cli/v3"
)

// AnnotationGet prints one annotation with its referent.
func (r *Runner) AnnotationGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID("annotation id", cmd.StringArg("id"))
	if err != nil {
		return err
	}

	annotation, err := r.client.Annotation(ctx, id, cmd.String("text-format"))
	if err != nil {
		return err
	}

	return r.emit(cmd, output{
		kind:   "annotation",
		source: fmt.Sprintf("/annotations/%d", id),
		title:  fmt.Sprintf("annotation_%d", id),
		table:  annotation.Table(records.AnnotationSchema),
		raw:    annotation.Document,
		single: true,
	})
}

// Referents lists one page of referents for a song or a web page.
func (r *Runner) Referents(ctx context.Context, cmd *cli.Command) error {
	rq := services.ReferentsQuery{
		SongID:      cmd.Int64("song-id"),
		WebPageID:   cmd.Int64("web-page-id"),
		CreatedByID: cmd.Int64("created-by-id"),
		Page:        int(cmd.Int("page")),
		PerPage:     int(cmd.Int("per-page")),
		TextFormat:  cmd.String("text-format"),
	}

	table, err := r.client.Referents(ctx, rq)
	if err != nil {
		return err
	}

	source := fmt.Sprintf("/referents?song_id=%d", rq.SongID)
	if rq.WebPageID > 0 {
		source = fmt.Sprintf("/referents?web_page_id=%d", rq.WebPageID)
	}

	return r.emit(cmd, output{
		kind:   "referent",
		source: source,
		title:  "referents",
		table:  table,
	})
}
