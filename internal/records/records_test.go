package records

import (
	"encoding/json"
	"strings"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return v
}

func TestLookup(t *testing.T) {
	doc := decode(t, `{
		"id": 378195,
		"title": "Sorry",
		"primary_artist": {"id": 357, "name": "Justin Bieber", "is_verified": true},
		"media": [{"provider": "youtube", "url": "https://youtu.be/x"}],
		"album": null
	}`)

	tests := []struct {
		name string
		path string
		want any
	}{
		{name: "top-level number", path: "id", want: json.Number("378195")},
		{name: "nested string", path: "primary_artist.name", want: "Justin Bieber"},
		{name: "boolean passes through", path: "primary_artist.is_verified", want: true},
		{name: "array index", path: "media.0.provider", want: "youtube"},
		{name: "missing key", path: "stats.pageviews", want: nil},
		{name: "null parent", path: "album.name", want: nil},
		{name: "out of range index", path: "media.3.url", want: nil},
		{name: "negative index", path: "media.-1.url", want: nil},
		{name: "non-numeric index", path: "media.first.url", want: nil},
		{name: "scalar parent", path: "title.length", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lookup(doc, tt.path)
			if got != tt.want {
				t.Errorf("Lookup(%q) = %#v, want %#v", tt.path, got, tt.want)
			}
		})
	}

	t.Run("empty path returns input", func(t *testing.T) {
		if got := Lookup("x", ""); got != "x" {
			t.Errorf("expected input back, got %#v", got)
		}
	})

	t.Run("nil input", func(t *testing.T) {
		if got := Lookup(nil, "a.b"); got != nil {
			t.Errorf("expected nil, got %#v", got)
		}
	})
}

func TestProject(t *testing.T) {
	t.Run("every schema field is present for an empty document", func(t *testing.T) {
		for kind, schema := range Schemas {
			t.Run(kind, func(t *testing.T) {
				r := Project(map[string]any{}, schema)
				if r.Len() != len(schema) {
					t.Fatalf("expected %d fields, got %d", len(schema), r.Len())
				}
				for _, f := range schema {
					v, ok := r.Get(f.Name)
					if !ok {
						t.Errorf("field %s missing", f.Name)
					}
					if !IsNull(v) {
						t.Errorf("field %s: expected null, got %#v", f.Name, v)
					}
				}
			})
		}
	})

	t.Run("non-object input yields all nulls", func(t *testing.T) {
		for _, raw := range []any{nil, "text", json.Number("1"), []any{}} {
			r := Project(raw, ArtistSchema)
			for i, v := range r.Values() {
				if v != nil {
					t.Errorf("%#v: field %s expected null, got %#v", raw, r.Fields()[i], v)
				}
			}
		}
	})

	t.Run("field order follows schema", func(t *testing.T) {
		r := Project(map[string]any{}, SongSchema)
		want := SongSchema.Names()
		got := r.Fields()
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("field %d: got %s, want %s", i, got[i], want[i])
			}
		}
	})

	t.Run("values keep their JSON types", func(t *testing.T) {
		doc := decode(t, `{"id": 16775, "name": "Kendrick Lamar", "is_verified": false, "iq": 49520.5}`)
		r := Project(doc, ArtistSchema)

		if v, _ := r.Get("artist_id"); v != json.Number("16775") {
			t.Errorf("artist_id: got %#v", v)
		}
		if v, _ := r.Get("artist_is_verified"); v != false {
			t.Errorf("artist_is_verified: got %#v", v)
		}
		if v, _ := r.Get("artist_iq"); v != json.Number("49520.5") {
			t.Errorf("artist_iq: got %#v", v)
		}
		if _, ok := r.Get("unknown"); ok {
			t.Error("expected undeclared field to report false")
		}
	})
}

func TestRecordMarshalJSON(t *testing.T) {
	doc := decode(t, `{"id": 1, "title": "Intro", "primary_artist": {"name": "A"}}`)
	r := Project(doc, Schema{{"song_name", "title"}, {"song_id", "id"}, {"artist_name", "primary_artist.name"}, {"album", "album.name"}})

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"song_name":"Intro","song_id":1,"artist_name":"A","album":null}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestRecordMap(t *testing.T) {
	r := NewRecord([]string{"a", "b"}, []any{"x"})
	m := r.Map()
	if len(m) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(m))
	}
	if m["a"] != "x" || m["b"] != nil {
		t.Errorf("unexpected map: %#v", m)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NA"},
		{"s", "s"},
		{json.Number("42"), "42"},
		{true, "true"},
		{1.5, "1.5"},
		{int64(7), "7"},
		{[]any{"a"}, `["a"]`},
	}
	for _, tt := range tests {
		if got := Format(tt.in, "NA"); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTable(t *testing.T) {
	items := decode(t, `[
		{"id": 3, "title": "C"},
		{"id": 1, "title": "A"},
		{"title": "B"}
	]`).([]any)

	table := ProjectAll(items, ArtistSongSchema)

	t.Run("preserves item order", func(t *testing.T) {
		if table.Len() != 3 {
			t.Fatalf("expected 3 rows, got %d", table.Len())
		}
		names := table.Column("song_name")
		for i, want := range []string{"C", "A", "B"} {
			if names[i] != want {
				t.Errorf("row %d: got %v, want %s", i, names[i], want)
			}
		}
	})

	t.Run("missing values are null", func(t *testing.T) {
		if ids := table.Column("song_id"); ids[2] != nil {
			t.Errorf("expected null id, got %#v", ids[2])
		}
	})

	t.Run("unknown column", func(t *testing.T) {
		if table.Column("nope") != nil {
			t.Error("expected nil for undeclared column")
		}
	})

	t.Run("append", func(t *testing.T) {
		tbl := Table{Schema: SongMediaSchema}
		tbl.Append(map[string]any{"provider": "spotify"})
		if tbl.Len() != 1 {
			t.Fatalf("expected 1 row, got %d", tbl.Len())
		}
	})

	t.Run("empty table marshals to array", func(t *testing.T) {
		data, err := json.Marshal(Table{Schema: SongSchema})
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != "[]" {
			t.Errorf("got %s", data)
		}
	})
}
