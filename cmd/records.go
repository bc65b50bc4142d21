package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/lyrx/internal/formatter"
	"github.com/desertthunder/lyrx/internal/repositories"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/urfave/cli/v3"
)

// RecordsList prints the stored table headers.
func (r *Runner) RecordsList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.store()
	if err != nil {
		return err
	}

	tables, err := repo.List(map[string]any{"kind": cmd.String("kind"), "limit": int(cmd.Int("limit"))})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type entry struct {
			Sequence int      `json:"sequence"`
			ID       string   `json:"id"`
			Kind     string   `json:"kind"`
			Source   string   `json:"source"`
			Rows     int      `json:"rows"`
			Fields   []string `json:"fields"`
			Created  string   `json:"created"`
		}
		entries := make([]entry, 0, len(tables))
		for _, t := range tables {
			entries = append(entries, entry{t.Sequence, t.TableID, t.Kind, t.Source, t.RowCount, t.Fields, t.Created.Format("2006-01-02T15:04:05Z07:00")})
		}
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(tables) == 0 {
		return r.writePlain("No stored tables. Use --save on any query command.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Stored tables (%d)", len(tables)))
	for _, t := range tables {
		r.writePlain("#%-4d %-18s %4d rows  %s  %s\n", t.Sequence, t.Kind, t.RowCount, t.Created.Format("2006-01-02 15:04"), t.Source)
	}
	return nil
}

// RecordsShow prints a stored table.
func (r *Runner) RecordsShow(ctx context.Context, cmd *cli.Command) error {
	return r.showStored(cmd, false)
}

// RecordsExport writes a stored table to a file, defaulting to {kind}_{sequence}.{ext}.
func (r *Runner) RecordsExport(ctx context.Context, cmd *cli.Command) error {
	return r.showStored(cmd, true)
}

func (r *Runner) showStored(cmd *cli.Command, toFile bool) error {
	ref := strings.TrimSpace(cmd.StringArg("ref"))
	if ref == "" {
		return fmt.Errorf("%w: table reference", shared.ErrMissingArgument)
	}

	repo, err := r.store()
	if err != nil {
		return err
	}

	stored, err := repo.Find(ref)
	if err != nil {
		return err
	}

	table, err := repositories.Restore(stored)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s_%d", stored.Kind, stored.Sequence)
	if toFile && cmd.String("output") == "" {
		f, err := formatter.ParseFormat(cmd.String("format"))
		if err != nil {
			return err
		}
		if err := cmd.Set("output", title+f.Extension()); err != nil {
			return err
		}
	}

	return r.emit(cmd, output{
		kind:   stored.Kind,
		source: stored.Source,
		title:  title,
		table:  table,
		single: table.Len() == 1,
	})
}

// RecordsDelete soft-deletes a stored table.
func (r *Runner) RecordsDelete(ctx context.Context, cmd *cli.Command) error {
	ref := strings.TrimSpace(cmd.StringArg("ref"))
	if ref == "" {
		return fmt.Errorf("%w: table reference", shared.ErrMissingArgument)
	}

	repo, err := r.store()
	if err != nil {
		return err
	}

	stored, err := repo.Find(ref)
	if err != nil {
		return err
	}
	if err := repo.Delete(stored.TableID); err != nil {
		return err
	}

	return r.writePlain("✓ Deleted #%d (%s)\n", stored.Sequence, stored.Kind)
}
