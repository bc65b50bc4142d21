package main

import (
	"context"
	"strings"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/urfave/cli/v3"
)

var candidateSchema = records.Schema{
	{Name: "id", Path: "id"},
	{Name: "name", Path: "name"},
	{Name: "url", Path: "url"},
}

func candidateTable(set *models.CandidateSet) records.Table {
	t := records.Table{Schema: candidateSchema}
	names := candidateSchema.Names()
	for _, c := range set.Items() {
		t.Rows = append(t.Rows, records.NewRecord(names, []any{c.ID, c.Name, c.URL}))
	}
	return t
}

func searchTitle(prefix, query string) string {
	return prefix + "_" + strings.Join(strings.Fields(strings.ToLower(query)), "_")
}

// SearchAll lists search hits, following pages when --limit is set.
func (r *Runner) SearchAll(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	hits, err := r.client.Search(ctx, query, services.SearchQuery{
		PerPage: int(cmd.Int("per-page")),
		Page:    int(cmd.Int("page")),
		Limit:   int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	return r.emit(cmd, output{
		kind:   "search_hit",
		source: "/search?q=" + query,
		title:  searchTitle("search", query),
		table:  hits,
	})
}

// SearchArtist lists the distinct artists behind the hits for a name.
func (r *Runner) SearchArtist(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	set, err := r.client.SearchArtist(ctx, query)
	if err != nil {
		return err
	}

	return r.emit(cmd, output{
		kind:   "artist_candidate",
		source: "/search?q=" + query,
		title:  searchTitle("artists", query),
		table:  candidateTable(set),
	})
}

// SearchSong lists the distinct songs behind the hits for a query.
func (r *Runner) SearchSong(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	set, err := r.client.SearchSong(ctx, query)
	if err != nil {
		return err
	}

	return r.emit(cmd, output{
		kind:   "song_candidate",
		source: "/search?q=" + query,
		title:  searchTitle("songs", query),
		table:  candidateTable(set),
	})
}
