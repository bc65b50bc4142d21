package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
	tu "github.com/desertthunder/lyrx/internal/testing"
)

const songJSON = `{"song":{
	"id":1,"title":"HUMBLE.","full_title":"HUMBLE. by Kendrick Lamar","url":"%s/humble-lyrics",
	"primary_artist":{"id":1421,"name":"Kendrick Lamar","url":"https://genius.com/artists/Kendrick-lamar"},
	"media":[{"provider":"youtube","type":"video","url":"https://www.youtube.com/watch?v=tvTRZJ-4EyI"}],
	"producer_artists":[{"id":2,"name":"Mike WiLL Made-It"}],
	"writer_artists":[{"id":1421,"name":"Kendrick Lamar"},{"id":3,"name":"Asheton Hogan"}],
	"song_relationships":[{"relationship_type":"samples","type":"samples","songs":[{"id":9,"title":"Sample","full_title":"Sample by Someone"}]}]
}}`

const searchJSON = `{"hits":[
	{"type":"song","result":{"id":1,"title":"HUMBLE.","full_title":"HUMBLE. by Kendrick Lamar","url":"https://genius.com/humble","primary_artist":{"id":1421,"name":"Kendrick Lamar","url":"https://genius.com/artists/Kendrick-lamar"}}},
	{"type":"song","result":{"id":5,"title":"DNA.","full_title":"DNA. by Kendrick Lamar","url":"https://genius.com/dna","primary_artist":{"id":1421,"name":"Kendrick Lamar","url":"https://genius.com/artists/Kendrick-lamar"}}}
]}`

const lyricsHTML = `<html><body>
<div data-lyrics-container="true">[Verse 1]<br/>Wicked or weakness<br/>You gotta see this</div>
</body></html>`

type testEnv struct {
	runner *Runner
	out    *bytes.Buffer
	prompt *bytes.Buffer
	server *httptest.Server
}

func envelope(status int, body string) string {
	return fmt.Sprintf(`{"meta":{"status":%d},"response":%s}`, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// newTestEnv serves a small fake Genius API and returns a runner wired to it with an in-memory record store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/songs/", func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/songs/") {
		case "1":
			writeJSON(w, http.StatusOK, envelope(200, fmt.Sprintf(songJSON, server.URL)))
		case "401":
			writeJSON(w, http.StatusUnauthorized, `{"meta":{"status":401,"message":"invalid_token"}}`)
		default:
			writeJSON(w, http.StatusNotFound, `{"meta":{"status":404,"message":"Not found"}}`)
		}
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope(200, searchJSON))
	})
	mux.HandleFunc("/artists/1421/songs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, http.StatusOK, envelope(200, `{"songs":[{"id":3,"title":"C","primary_artist":{"id":1421}},{"id":4,"title":"D","primary_artist":{"id":1421}}],"next_page":null}`))
			return
		}
		writeJSON(w, http.StatusOK, envelope(200, `{"songs":[{"id":1,"title":"A","primary_artist":{"id":1421}},{"id":2,"title":"B","primary_artist":{"id":7}}],"next_page":2}`))
	})
	mux.HandleFunc("/humble-lyrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, lyricsHTML)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	logger := log.New(io.Discard)
	client := services.NewClient(services.Options{
		BaseURL: server.URL,
		Logger:  logger,
		Token:   "test-token-1234",
		Pacer:   tu.NoopPacer{},
	})

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	out, prompt := &bytes.Buffer{}, &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Client: client,
		Logger: logger,
		Output: out,
		Input:  strings.NewReader(""),
		Prompt: prompt,
		DB:     db,
	})

	return &testEnv{runner: runner, out: out, prompt: prompt, server: server}
}

// run executes one command line against a freshly built command tree.
func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	e.out.Reset()
	missing := filepath.Join(t.TempDir(), "missing.toml")
	return e.runner.app().Run(context.Background(), append([]string{"lyrx", "--config", missing}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			client := services.NewClient(services.Options{})

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				Client:     client,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.client != client {
				t.Error("expected client to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
			if runner.prompt != os.Stderr {
				t.Error("expected prompts to default to os.Stderr")
			}
		})

		t.Run("Before builds a client from config", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			config := shared.DefaultConfig()
			config.Credentials.Genius.AccessToken = "from-config"
			config.Credentials.Genius.BaseURL = "http://example.test"
			if err := shared.SaveConfig(path, config); err != nil {
				t.Fatalf("SaveConfig() error = %v", err)
			}

			out := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: out, Logger: log.New(io.Discard), Input: strings.NewReader("")})
			if err := runner.app().Run(context.Background(), []string{"lyrx", "--config", path, "auth", "status"}); err != nil {
				t.Fatalf("auth status error = %v", err)
			}

			if runner.client == nil || runner.client.BaseURL() != "http://example.test" {
				t.Fatal("expected client built from config")
			}
			if !strings.Contains(out.String(), "Source: config") {
				t.Errorf("expected config source, got:\n%s", out.String())
			}
		})

		t.Run("token flag overrides", func(t *testing.T) {
			env := newTestEnv(t)
			if err := env.run(t, "--token", "flag-token-9999", "auth", "status"); err != nil {
				t.Fatalf("auth status error = %v", err)
			}
			if !strings.Contains(env.out.String(), "Source: explicit") || !strings.Contains(env.out.String(), "9999") {
				t.Errorf("unexpected status:\n%s", env.out.String())
			}
		})
	})
}

func TestSongCommands(t *testing.T) {
	env := newTestEnv(t)

	t.Run("get prints field lines", func(t *testing.T) {
		if err := env.run(t, "song", "get", "1"); err != nil {
			t.Fatalf("song get error = %v", err)
		}
		out := env.out.String()
		if !strings.Contains(out, "song_name") || !strings.Contains(out, "HUMBLE.") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("get --json prints the raw document", func(t *testing.T) {
		if err := env.run(t, "song", "get", "--json", "1"); err != nil {
			t.Fatalf("song get error = %v", err)
		}
		if !strings.Contains(env.out.String(), `"producer_artists"`) {
			t.Errorf("expected raw song document, got:\n%s", env.out.String())
		}
	})

	t.Run("get resolves a query with --first", func(t *testing.T) {
		if err := env.run(t, "song", "get", "--first", "--format", "csv", "humble"); err != nil {
			t.Fatalf("song get error = %v", err)
		}
		if !strings.Contains(env.out.String(), "HUMBLE. by Kendrick Lamar") {
			t.Errorf("unexpected output:\n%s", env.out.String())
		}
	})

	t.Run("numbered menu stays off the result stream", func(t *testing.T) {
		env.runner.input = strings.NewReader("1\n")
		env.runner.lines = nil
		env.prompt.Reset()

		if err := env.run(t, "song", "get", "--json", "humble"); err != nil {
			t.Fatalf("song get error = %v", err)
		}
		if !json.Valid(env.out.Bytes()) {
			t.Errorf("stdout is not valid JSON:\n%s", env.out.String())
		}
		if !strings.Contains(env.out.String(), `"producer_artists"`) {
			t.Errorf("expected the chosen song, got:\n%s", env.out.String())
		}
		if !strings.Contains(env.prompt.String(), "1. HUMBLE. by Kendrick Lamar") {
			t.Errorf("menu not written to the prompt stream:\n%s", env.prompt.String())
		}
	})

	t.Run("credits with role column", func(t *testing.T) {
		if err := env.run(t, "song", "credits", "--format", "csv", "1"); err != nil {
			t.Fatalf("song credits error = %v", err)
		}
		lines := strings.Split(strings.TrimSpace(env.out.String()), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected header + 3 credits, got %d lines:\n%s", len(lines), env.out.String())
		}
		if !strings.HasPrefix(lines[0], "role,artist_id") {
			t.Errorf("header = %q", lines[0])
		}
		if !strings.HasPrefix(lines[1], "producer,2,") || !strings.HasPrefix(lines[2], "writer,1421,") {
			t.Errorf("unexpected rows: %v", lines[1:])
		}
	})

	t.Run("credits rejects an unknown role", func(t *testing.T) {
		err := env.run(t, "song", "credits", "--role", "mixers", "1")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("media and relationships", func(t *testing.T) {
		if err := env.run(t, "song", "media", "--format", "csv", "1"); err != nil {
			t.Fatalf("song media error = %v", err)
		}
		if !strings.Contains(env.out.String(), "youtube,video") {
			t.Errorf("unexpected media:\n%s", env.out.String())
		}

		if err := env.run(t, "song", "relationships", "--format", "csv", "1"); err != nil {
			t.Fatalf("song relationships error = %v", err)
		}
		if !strings.Contains(env.out.String(), "samples,samples,9,Sample") {
			t.Errorf("unexpected relationships:\n%s", env.out.String())
		}
	})

	t.Run("status codes surface in errors", func(t *testing.T) {
		for _, id := range []string{"401", "404"} {
			err := env.run(t, "song", "get", id)
			if err == nil || !strings.Contains(err.Error(), id) {
				t.Errorf("song %s: expected status in error, got %v", id, err)
			}
		}
	})
}

func TestArtistSongsCommand(t *testing.T) {
	env := newTestEnv(t)

	t.Run("collects pages up to the limit", func(t *testing.T) {
		if err := env.run(t, "artist", "songs", "--per-page", "2", "--limit", "3", "--format", "csv", "1421"); err != nil {
			t.Fatalf("artist songs error = %v", err)
		}
		lines := strings.Split(strings.TrimSpace(env.out.String()), "\n")
		if len(lines) != 4 {
			t.Errorf("expected header + 3 songs, got:\n%s", env.out.String())
		}
	})

	t.Run("exclude features drops other primary artists", func(t *testing.T) {
		if err := env.run(t, "artist", "songs", "--exclude-features", "--format", "csv", "1421"); err != nil {
			t.Fatalf("artist songs error = %v", err)
		}
		if strings.Contains(env.out.String(), ",B,") {
			t.Errorf("featured song should be filtered:\n%s", env.out.String())
		}
	})
}

func TestSearchCommands(t *testing.T) {
	env := newTestEnv(t)

	t.Run("all hits", func(t *testing.T) {
		if err := env.run(t, "search", "all", "--format", "csv", "kendrick"); err != nil {
			t.Fatalf("search all error = %v", err)
		}
		if !strings.HasPrefix(env.out.String(), "hit_type,song_id") {
			t.Errorf("unexpected output:\n%s", env.out.String())
		}
	})

	t.Run("artist candidates are deduped", func(t *testing.T) {
		if err := env.run(t, "search", "artist", "--format", "csv", "kendrick"); err != nil {
			t.Fatalf("search artist error = %v", err)
		}
		lines := strings.Split(strings.TrimSpace(env.out.String()), "\n")
		if len(lines) != 2 || !strings.HasPrefix(lines[1], "1421,Kendrick Lamar") {
			t.Errorf("expected one artist, got:\n%s", env.out.String())
		}
	})

	t.Run("referents conflict", func(t *testing.T) {
		err := env.run(t, "referents", "--song-id", "1", "--web-page-id", "2")
		if !errors.Is(err, shared.ErrConflictingParameter) {
			t.Errorf("expected ErrConflictingParameter, got %v", err)
		}
	})

	t.Run("webpage lookup needs a url", func(t *testing.T) {
		err := env.run(t, "webpage", "lookup")
		if !errors.Is(err, shared.ErrMissingParameter) {
			t.Errorf("expected ErrMissingParameter, got %v", err)
		}
	})
}

func TestLyricsCommands(t *testing.T) {
	env := newTestEnv(t)

	t.Run("by url", func(t *testing.T) {
		if err := env.run(t, "lyrics", "url", env.server.URL+"/humble-lyrics"); err != nil {
			t.Fatalf("lyrics url error = %v", err)
		}
		if !strings.Contains(env.out.String(), "[Verse 1]\nWicked or weakness") {
			t.Errorf("unexpected lyrics:\n%s", env.out.String())
		}
	})

	t.Run("by id to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "humble.txt")
		if err := env.run(t, "lyrics", "id", "--output", path, "1"); err != nil {
			t.Fatalf("lyrics id error = %v", err)
		}
		if got := tu.MustReadFile(t, path); !strings.Contains(got, "You gotta see this") {
			t.Errorf("unexpected file content: %q", got)
		}
	})

	t.Run("search with --first", func(t *testing.T) {
		if err := env.run(t, "lyrics", "search", "--first", "--json", "--artist", "Kendrick Lamar", "humble"); err != nil {
			t.Fatalf("lyrics search error = %v", err)
		}
		if !strings.Contains(env.out.String(), `"lyrics"`) {
			t.Errorf("expected JSON lyrics, got:\n%s", env.out.String())
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		if err := env.run(t, "lyrics", "id", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestRecordsCommands(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run(t, "song", "get", "--save", "--format", "csv", "1"); err != nil {
		t.Fatalf("song get --save error = %v", err)
	}

	t.Run("list", func(t *testing.T) {
		if err := env.run(t, "records", "list"); err != nil {
			t.Fatalf("records list error = %v", err)
		}
		if !strings.Contains(env.out.String(), "#1") || !strings.Contains(env.out.String(), "/songs/1") {
			t.Errorf("unexpected list:\n%s", env.out.String())
		}
	})

	t.Run("show restores the table", func(t *testing.T) {
		if err := env.run(t, "records", "show", "--format", "csv", "#1"); err != nil {
			t.Fatalf("records show error = %v", err)
		}
		if !strings.HasPrefix(env.out.String(), "song_id,song_name") || !strings.Contains(env.out.String(), "HUMBLE.") {
			t.Errorf("unexpected table:\n%s", env.out.String())
		}
	})

	t.Run("export writes a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "song.yaml")
		if err := env.run(t, "records", "export", "--format", "yaml", "--output", path, "1"); err != nil {
			t.Fatalf("records export error = %v", err)
		}
		tu.AssertFileExists(t, path)
	})

	t.Run("delete hides the table", func(t *testing.T) {
		if err := env.run(t, "records", "delete", "1"); err != nil {
			t.Fatalf("records delete error = %v", err)
		}
		if err := env.run(t, "records", "show", "1"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestBatchCommand(t *testing.T) {
	env := newTestEnv(t)

	t.Run("keeps successes when some ids fail", func(t *testing.T) {
		if err := env.run(t, "batch", "songs", "--rate", "1000", "--format", "csv", "1", "404"); err != nil {
			t.Fatalf("batch songs error = %v", err)
		}
		lines := strings.Split(strings.TrimSpace(env.out.String()), "\n")
		if len(lines) != 2 || !strings.Contains(lines[1], "HUMBLE.") {
			t.Errorf("expected one song row, got:\n%s", env.out.String())
		}
	})

	t.Run("writes exports and manifest", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "songs")
		if err := env.run(t, "batch", "songs", "--rate", "1000", "--export-dir", dir, "--export-format", "md", "1"); err != nil {
			t.Fatalf("batch songs error = %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "song_1", "README.md"))
		tu.AssertFileExists(t, filepath.Join(dir, "batch_manifest.json"))
	})

	t.Run("all failures is an error", func(t *testing.T) {
		err := env.run(t, "batch", "songs", "--rate", "1000", "404")
		if !errors.Is(err, shared.ErrRequestFailed) {
			t.Errorf("expected ErrRequestFailed, got %v", err)
		}
	})
}

func TestBatchIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	if err := os.WriteFile(path, []byte("# favourites\n3\n\n4,5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		file    string
		want    []int64
		wantErr error
	}{
		{"arguments", []string{"1", "2"}, "", []int64{1, 2}, nil},
		{"comma separated", []string{"1,2"}, "", []int64{1, 2}, nil},
		{"file with comments", nil, path, []int64{3, 4, 5}, nil},
		{"arguments then file", []string{"1"}, path, []int64{1, 3, 4, 5}, nil},
		{"nothing", nil, "", nil, shared.ErrMissingArgument},
		{"not a number", []string{"abc"}, "", nil, shared.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := batchIDs(tt.args, tt.file)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("batchIDs() error = %v", err)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("batchIDs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthCommands(t *testing.T) {
	t.Run("set --save writes the config", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		err := env.runner.app().Run(context.Background(), []string{"lyrx", "--config", path, "auth", "set", "--save", "saved-token-abcd"})
		if err != nil {
			t.Fatalf("auth set error = %v", err)
		}

		config, err := shared.LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if config.Credentials.Genius.AccessToken != "saved-token-abcd" {
			t.Errorf("saved token = %q", config.Credentials.Genius.AccessToken)
		}
		if !strings.Contains(env.out.String(), "abcd") || strings.Contains(env.out.String(), "saved-token") {
			t.Errorf("expected masked token in output:\n%s", env.out.String())
		}
	})

	t.Run("import reads a bearer header", func(t *testing.T) {
		env := newTestEnv(t)
		curl := `curl 'https://api.genius.com/songs/1' -H 'Accept: application/json' -H 'Authorization: Bearer imported-token-wxyz'`
		if err := env.run(t, "auth", "import", "--curl", curl); err != nil {
			t.Fatalf("auth import error = %v", err)
		}
		if src := env.runner.client.Credentials().Source(); src != services.SourceExplicit {
			t.Errorf("source = %s, want explicit", src)
		}
		if !strings.Contains(env.out.String(), "wxyz") {
			t.Errorf("unexpected output:\n%s", env.out.String())
		}
	})

	t.Run("import needs exactly one source", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run(t, "auth", "import"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := env.run(t, "auth", "import", "--curl", "x", "--curl-file", "y"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("status --verify", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run(t, "auth", "status", "--verify"); err != nil {
			t.Fatalf("auth status error = %v", err)
		}
		if !strings.Contains(env.out.String(), "token accepted") {
			t.Errorf("unexpected output:\n%s", env.out.String())
		}
	})
}

func TestSetupCommands(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := env.runner.app().Run(context.Background(), []string{"lyrx", "--config", path, "setup", "config"}); err != nil {
		t.Fatalf("setup config error = %v", err)
	}
	tu.AssertFileExists(t, path)

	err := env.runner.app().Run(context.Background(), []string{"lyrx", "--config", path, "setup", "config"})
	if err == nil {
		t.Error("expected error when config already exists")
	}

	if err := env.run(t, "setup", "database"); err != nil {
		t.Fatalf("setup database error = %v", err)
	}
}
