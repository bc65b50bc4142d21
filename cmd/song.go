package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/urfave/cli/v3"
)

// creditSchema is [records.SongCreditSchema] with a leading role column.
var creditSchema = append(records.Schema{{Name: "role", Path: "role"}}, records.SongCreditSchema...)

func (r *Runner) fetchSong(ctx context.Context, cmd *cli.Command) (*services.SongResult, int64, error) {
	id, err := r.songID(ctx, cmd, cmd.StringArg("song"))
	if err != nil {
		return nil, 0, err
	}

	r.logger.Debug("fetching song", "id", id)
	song, err := r.client.Song(ctx, id, cmd.String("text-format"))
	if err != nil {
		return nil, 0, err
	}
	return song, id, nil
}

// SongGet prints one song.
func (r *Runner) SongGet(ctx context.Context, cmd *cli.Command) error {
	song, id, err := r.fetchSong(ctx, cmd)
	if err != nil {
		return err
	}

	return r.emit(cmd, output{
		kind:   "song",
		source: fmt.Sprintf("/songs/%d", id),
		title:  fmt.Sprintf("song_%d", id),
		table:  song.Table(records.SongSchema),
		raw:    song.Document,
		single: true,
	})
}

// SongMedia prints the song's media links.
func (r *Runner) SongMedia(ctx context.Context, cmd *cli.Command) error {
	song, id, err := r.fetchSong(ctx, cmd)
	if err != nil {
		return err
	}

	return r.emit(cmd, output{
		kind:   "song_media",
		source: fmt.Sprintf("/songs/%d#media", id),
		title:  fmt.Sprintf("song_%d_media", id),
		table:  song.Media,
		raw:    song.Document.List("media"),
	})
}

// SongCredits prints producers, writers, or both with a role column.
func (r *Runner) SongCredits(ctx context.Context, cmd *cli.Command) error {
	role := cmd.String("role")
	switch role {
	case "all", "producers", "writers":
	default:
		return fmt.Errorf("%w: role %q must be producers, writers or all", shared.ErrInvalidFlag, role)
	}

	song, id, err := r.fetchSong(ctx, cmd)
	if err != nil {
		return err
	}

	table := records.Table{Schema: creditSchema}
	if role != "writers" {
		table.Rows = append(table.Rows, withRole("producer", song.Producers)...)
	}
	if role != "producers" {
		table.Rows = append(table.Rows, withRole("writer", song.Writers)...)
	}

	return r.emit(cmd, output{
		kind:   "song_credit",
		source: fmt.Sprintf("/songs/%d#%s", id, role),
		title:  fmt.Sprintf("song_%d_credits", id),
		table:  table,
	})
}

func withRole(role string, t records.Table) []records.Record {
	names := creditSchema.Names()
	rows := make([]records.Record, 0, t.Len())
	for _, row := range t.Rows {
		rows = append(rows, records.NewRecord(names, append([]any{role}, row.Values()...)))
	}
	return rows
}

// SongRelationships prints samples, interpolations, covers and other related songs.
func (r *Runner) SongRelationships(ctx context.Context, cmd *cli.Command) error {
	song, id, err := r.fetchSong(ctx, cmd)
	if err != nil {
		return err
	}

	return r.emit(cmd, output{
		kind:   "song_relationship",
		source: fmt.Sprintf("/songs/%d#relationships", id),
		title:  fmt.Sprintf("song_%d_relationships", id),
		table:  song.Relationships,
		raw:    song.Document.List("song_relationships"),
	})
}

// SongOpen opens the song page in the default browser.
func (r *Runner) SongOpen(ctx context.Context, cmd *cli.Command) error {
	song, _, err := r.fetchSong(ctx, cmd)
	if err != nil {
		return err
	}

	url := song.URL()
	if url == "" {
		return fmt.Errorf("%w: song has no page URL", shared.ErrNotFound)
	}

	r.logger.Info("opening song page", "url", url)
	if err := shared.OpenBrowser(url); err != nil {
		r.writePlain("Open this URL in your browser:\n%s\n", url)
		return err
	}
	return nil
}
