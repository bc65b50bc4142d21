package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/urfave/cli/v3"
)

// ArtistGet prints one artist.
func (r *Runner) ArtistGet(ctx context.Context, cmd *cli.Command) error {
	id, err := r.artistID(ctx, cmd, cmd.StringArg("artist"))
	if err != nil {
		return err
	}

	artist, err := r.client.Artist(ctx, id, cmd.String("text-format"))
	if err != nil {
		return err
	}

	return r.emit(cmd, output{
		kind:   "artist",
		source: fmt.Sprintf("/artists/%d", id),
		title:  fmt.Sprintf("artist_%d", id),
		table:  artist.Table(records.ArtistSchema),
		raw:    artist.Document,
		single: true,
	})
}

// ArtistSongs walks every page of the artist's songs.
func (r *Runner) ArtistSongs(ctx context.Context, cmd *cli.Command) error {
	id, err := r.artistID(ctx, cmd, cmd.StringArg("artist"))
	if err != nil {
		return err
	}

	r.logger.Info("collecting artist songs", "id", id, "sort", cmd.String("sort"))
	songs, err := r.client.ArtistSongs(ctx, id, services.ArtistSongsQuery{
		Sort:            cmd.String("sort"),
		PerPage:         int(cmd.Int("per-page")),
		Page:            int(cmd.Int("page")),
		Limit:           int(cmd.Int("limit")),
		ExcludeFeatures: cmd.Bool("exclude-features"),
	})
	if err != nil {
		return err
	}

	return r.emit(cmd, output{
		kind:   "artist_song",
		source: fmt.Sprintf("/artists/%d/songs", id),
		title:  fmt.Sprintf("artist_%d_songs", id),
		table:  songs,
	})
}
