package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
)

// LyricsID prints the lyrics of a song id.
func (r *Runner) LyricsID(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID("song id", cmd.StringArg("id"))
	if err != nil {
		return err
	}

	lyrics, err := r.client.LyricsByID(ctx, id)
	if err != nil {
		return err
	}
	return r.writeLyrics(cmd, fmt.Sprintf("song %d", id), lyrics)
}

// LyricsURL prints the lyrics found on a song page.
func (r *Runner) LyricsURL(ctx context.Context, cmd *cli.Command) error {
	songURL := cmd.StringArg("url")
	lyrics, err := r.client.Lyrics(ctx, songURL)
	if err != nil {
		return err
	}
	return r.writeLyrics(cmd, songURL, lyrics)
}

// LyricsSearch resolves a title (and optional artist) to a song, then prints its lyrics.
func (r *Runner) LyricsSearch(ctx context.Context, cmd *cli.Command) error {
	artist, title := cmd.String("artist"), cmd.StringArg("title")
	header := fmt.Sprintf("Songs matching %q", title)
	if artist != "" {
		header = fmt.Sprintf("Songs matching %q by %q", title, artist)
	}

	lyrics, err := r.client.LyricsSearch(ctx, artist, title, r.selector(cmd, header))
	if err != nil {
		return err
	}

	source := title
	if artist != "" {
		source = artist + " - " + title
	}
	return r.writeLyrics(cmd, source, lyrics)
}

func (r *Runner) writeLyrics(cmd *cli.Command, source, lyrics string) error {
	if cmd.Bool("json") {
		return r.writeJSON(map[string]string{"source": source, "lyrics": lyrics}, cmd.Bool("pretty"))
	}

	if path := cmd.String("output"); path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		}
		if err := os.WriteFile(path, []byte(lyrics+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write lyrics: %w", err)
		}
		r.logger.Info("lyrics written", "path", path)
		return nil
	}

	return r.writePlain("%s\n", lyrics)
}
