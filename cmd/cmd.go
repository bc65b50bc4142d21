// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/urfave/cli/v3"
)

func flags(groups ...[]cli.Flag) []cli.Flag {
	var all []cli.Flag
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// outputFlags are shared by every command that prints a table.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output the raw API response as JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Table format: csv, md, txt, json, yaml",
			Value:   "txt",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the table to a file instead of stdout",
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "Store the result table in the local database",
		},
	}
}

// selectFlags choose how a name with several matches is resolved.
func selectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "first",
			Usage: "Take the first match without asking",
		},
		&cli.BoolFlag{
			Name:  "tui",
			Usage: "Choose among matches with an interactive list",
		},
	}
}

func textFormatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "text-format",
			Usage: "Body format for text fields: dom, plain or html",
		},
	}
}

func pagingFlags(perPage int) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "per-page",
			Usage: "Results per page (max 50)",
			Value: perPage,
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "First page to fetch",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Stop after this many results (0 for no limit)",
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand manages the Genius access token.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Genius access token",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Use a token for this run, optionally saving it to the config file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "token"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "save", Usage: "Write the token to the config file"},
				},
				Action: r.AuthSet,
			},
			{
				Name:  "status",
				Usage: "Show where the token comes from",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "verify", Usage: "Make one search request to check the token"},
				},
				Action: r.AuthStatus,
			},
			{
				Name:  "import",
				Usage: "Extract a bearer token from a browser \"Copy as cURL\" command",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "curl", Usage: "cURL command from browser DevTools (Copy as cURL)"},
					&cli.StringFlag{Name: "curl-file", Usage: "Path to .sh file containing cURL command"},
					&cli.BoolFlag{Name: "save", Usage: "Write the token to the config file"},
				},
				Action: r.AuthImport,
			},
		},
	}
}

func songArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "song", UsageText: "song id or search query"}}
}

// songCommand handles /songs/{id} and its sub-tables.
func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Song details",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show a song by id or search query",
				Arguments: songArg(),
				Flags:     flags(outputFlags(), selectFlags(), textFormatFlags()),
				Action:    r.SongGet,
			},
			{
				Name:      "media",
				Usage:     "List a song's media links",
				Arguments: songArg(),
				Flags:     flags(outputFlags(), selectFlags()),
				Action:    r.SongMedia,
			},
			{
				Name:      "credits",
				Usage:     "List a song's producers and writers",
				Arguments: songArg(),
				Flags: flags(outputFlags(), selectFlags(), []cli.Flag{
					&cli.StringFlag{Name: "role", Usage: "producers, writers or all", Value: "all"},
				}),
				Action: r.SongCredits,
			},
			{
				Name:      "relationships",
				Aliases:   []string{"rels"},
				Usage:     "List samples, covers, remixes and other related songs",
				Arguments: songArg(),
				Flags:     flags(outputFlags(), selectFlags()),
				Action:    r.SongRelationships,
			},
			{
				Name:      "open",
				Usage:     "Open a song's Genius page in the browser",
				Arguments: songArg(),
				Flags:     selectFlags(),
				Action:    r.SongOpen,
			},
		},
	}
}

func artistArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "artist", UsageText: "artist id or name"}}
}

// artistCommand handles /artists/{id} and the paginated song list.
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "Artist details and songs",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show an artist by id or name",
				Arguments: artistArg(),
				Flags:     flags(outputFlags(), selectFlags(), textFormatFlags()),
				Action:    r.ArtistGet,
			},
			{
				Name:      "songs",
				Usage:     "List an artist's songs across all pages",
				Arguments: artistArg(),
				Flags: flags(outputFlags(), selectFlags(), pagingFlags(services.DefaultPerPage), []cli.Flag{
					&cli.StringFlag{Name: "sort", Usage: "title or popularity", Value: services.SortTitle},
					&cli.BoolFlag{Name: "exclude-features", Usage: "Keep only songs where the artist is the primary artist"},
				}),
				Action: r.ArtistSongs,
			},
		},
	}
}

// annotationCommand handles /annotations/{id}.
func annotationCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "annotation",
		Aliases: []string{"ann"},
		Usage:   "Annotation details",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show an annotation by id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     flags(outputFlags(), textFormatFlags()),
				Action:    r.AnnotationGet,
			},
		},
	}
}

// referentsCommand handles /referents.
func referentsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "referents",
		Usage: "List referents for a song or a web page",
		Flags: flags(outputFlags(), textFormatFlags(), []cli.Flag{
			&cli.Int64Flag{Name: "song-id", Usage: "Song to list referents for"},
			&cli.Int64Flag{Name: "web-page-id", Usage: "Web page to list referents for"},
			&cli.Int64Flag{Name: "created-by-id", Usage: "Only referents created by this user"},
			&cli.IntFlag{Name: "per-page", Usage: "Results per page (max 50)"},
			&cli.IntFlag{Name: "page", Usage: "Page to fetch"},
		}),
		Action: r.Referents,
	}
}

// webPageCommand handles /web_pages/lookup.
func webPageCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "webpage",
		Usage: "Web page lookup",
		Commands: []*cli.Command{
			{
				Name:  "lookup",
				Usage: "Find the Genius web page for a URL",
				Flags: flags(outputFlags(), []cli.Flag{
					&cli.StringFlag{Name: "raw-url", Usage: "URL as it would appear in a browser"},
					&cli.StringFlag{Name: "canonical-url", Usage: "The page's rel=\"canonical\" URL"},
					&cli.StringFlag{Name: "og-url", Usage: "The page's og:url"},
				}),
				Action: r.WebPageLookup,
			},
		},
	}
}

func queryArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "query"}}
}

// searchCommand handles /search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search Genius",
		Commands: []*cli.Command{
			{
				Name:      "all",
				Usage:     "List search hits",
				Arguments: queryArg(),
				Flags:     flags(outputFlags(), pagingFlags(0)),
				Action:    r.SearchAll,
			},
			{
				Name:      "artist",
				Usage:     "List distinct artists matching a name",
				Arguments: queryArg(),
				Flags:     outputFlags(),
				Action:    r.SearchArtist,
			},
			{
				Name:      "song",
				Usage:     "List distinct songs matching a query",
				Arguments: queryArg(),
				Flags:     outputFlags(),
				Action:    r.SearchSong,
			},
		},
	}
}

func lyricsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output lyrics and source URL as JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write lyrics to a file"},
	}
}

// lyricsCommand scrapes lyrics from song pages.
func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lyrics",
		Usage: "Fetch song lyrics",
		Commands: []*cli.Command{
			{
				Name:      "id",
				Usage:     "Lyrics for a song id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     lyricsFlags(),
				Action:    r.LyricsID,
			},
			{
				Name:      "url",
				Usage:     "Lyrics from a Genius song page URL",
				Arguments: []cli.Argument{&cli.StringArg{Name: "url"}},
				Flags:     lyricsFlags(),
				Action:    r.LyricsURL,
			},
			{
				Name:      "search",
				Usage:     "Lyrics for a song title, optionally narrowed by artist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags: flags(lyricsFlags(), selectFlags(), []cli.Flag{
					&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Artist name"},
				}),
				Action: r.LyricsSearch,
			},
		},
	}
}

// batchCommand fetches many songs concurrently.
func batchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Concurrent multi-request jobs",
		Commands: []*cli.Command{
			{
				Name:      "songs",
				Usage:     "Fetch many songs by id",
				ArgsUsage: "[id...]",
				Flags: flags(outputFlags(), textFormatFlags(), []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Read ids from a file, one per line"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent workers (max 10, default from config)"},
					&cli.FloatFlag{Name: "rate", Usage: "Requests per second across workers (default from config)"},
					&cli.StringFlag{Name: "export-dir", Usage: "Write each song to this directory with a manifest"},
					&cli.StringFlag{Name: "export-format", Usage: "Per-song file format", Value: "json"},
					&cli.BoolFlag{Name: "covers", Usage: "Download song art with markdown exports"},
					&cli.BoolFlag{Name: "tui", Usage: "Show live progress in an interactive view"},
				}),
				Action: r.BatchSongs,
			},
		},
	}
}

func refArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "ref", UsageText: "sequence number (15 or #15) or id"}}
}

// recordsCommand manages tables stored with --save.
func recordsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "records",
		Aliases: []string{"rec"},
		Usage:   "Stored result tables",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored tables",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Usage: "Only tables of this kind (song, artist_song, search_hit, ...)"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum tables to list", Value: 20},
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
				},
				Action: r.RecordsList,
			},
			{
				Name:      "show",
				Usage:     "Print a stored table",
				Arguments: refArg(),
				Flags:     outputFlags(),
				Action:    r.RecordsShow,
			},
			{
				Name:      "export",
				Usage:     "Write a stored table to a file",
				Arguments: refArg(),
				Flags:     outputFlags(),
				Action:    r.RecordsExport,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a stored table",
				Arguments: refArg(),
				Action:    r.RecordsDelete,
			},
		},
	}
}
