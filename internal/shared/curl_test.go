package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tt := []struct {
		name        string
		curlCmd     string
		wantHeaders map[string]string
		wantCookie  string
		wantErr     bool
	}{
		{
			name:    "single header with single quotes",
			curlCmd: `curl -H 'Authorization: Bearer token123' https://api.genius.com/songs/378195`,
			wantHeaders: map[string]string{
				"Authorization": "Bearer token123",
			},
		},
		{
			name:    "single header with double quotes",
			curlCmd: `curl -H "Authorization: Bearer token123" https://api.genius.com/songs/378195`,
			wantHeaders: map[string]string{
				"Authorization": "Bearer token123",
			},
		},
		{
			name:    "multiple headers",
			curlCmd: `curl -H 'Accept: application/json' -H 'Authorization: Bearer token' https://api.genius.com`,
			wantHeaders: map[string]string{
				"Accept":        "application/json",
				"Authorization": "Bearer token",
			},
		},
		{
			name:        "cookie in -b flag",
			curlCmd:     `curl -b 'session=abc123' https://genius.com`,
			wantHeaders: map[string]string{},
			wantCookie:  "session=abc123",
		},
		{
			name:        "cookie in -H header is excluded from headers",
			curlCmd:     `curl -H 'Cookie: session=abc123; token=xyz' https://genius.com`,
			wantHeaders: map[string]string{},
			wantCookie:  "session=abc123; token=xyz",
		},
		{
			name:        "-b cookie takes precedence over -H cookie",
			curlCmd:     `curl -H 'Cookie: old=value' -b 'new=value' https://genius.com`,
			wantHeaders: map[string]string{},
			wantCookie:  "new=value",
		},
		{
			name: "multiline curl with backslashes",
			curlCmd: `curl 'https://api.genius.com/search?q=kendrick' \
  -H 'authorization: Bearer multi' \
  -H 'accept: application/json'`,
			wantHeaders: map[string]string{
				"authorization": "Bearer multi",
				"accept":        "application/json",
			},
		},
		{
			name:    "headers with spaces around colon",
			curlCmd: `curl -H 'Authorization : Bearer token' https://api.genius.com`,
			wantHeaders: map[string]string{
				"Authorization": "Bearer token",
			},
		},
		{
			name:    "no headers or cookies",
			curlCmd: `curl https://api.genius.com`,
			wantErr: true,
		},
		{
			name:    "empty command",
			curlCmd: "",
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseCurlCommand(tc.curlCmd)

			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCurlCommand() error = %v, wantErr %v", err, tc.wantErr)
			}

			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}

			if len(result.Headers) != len(tc.wantHeaders) {
				t.Errorf("ParseCurlCommand() headers count = %v, want %v", len(result.Headers), len(tc.wantHeaders))
			}

			for key, want := range tc.wantHeaders {
				if got := result.Headers[key]; got != want {
					t.Errorf("ParseCurlCommand() header[%s] = %v, want %v", key, got, want)
				}
			}

			if result.Cookie != tc.wantCookie {
				t.Errorf("ParseCurlCommand() cookie = %v, want %v", result.Cookie, tc.wantCookie)
			}
		})
	}
}

func TestCurlHeaders_BearerToken(t *testing.T) {
	tt := []struct {
		name    string
		headers map[string]string
		want    string
		wantErr bool
	}{
		{name: "canonical header", headers: map[string]string{"Authorization": "Bearer abc"}, want: "abc"},
		{name: "lowercase header and scheme", headers: map[string]string{"authorization": "bearer xyz"}, want: "xyz"},
		{name: "basic scheme", headers: map[string]string{"Authorization": "Basic Zm9v"}, wantErr: true},
		{name: "empty token", headers: map[string]string{"Authorization": "Bearer  "}, wantErr: true},
		{name: "no authorization", headers: map[string]string{"Accept": "*/*"}, wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			h := &CurlHeaders{Headers: tc.headers}
			got, err := h.BearerToken()

			if tc.wantErr {
				if !errors.Is(err, ErrMissingCredential) {
					t.Errorf("expected ErrMissingCredential, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BearerToken() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("BearerToken() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseCurlFile(t *testing.T) {
	t.Run("successful file parse", func(t *testing.T) {
		curlFile := filepath.Join(t.TempDir(), "curl.sh")

		curlCmd := `curl -H 'Authorization: Bearer token123' -H 'Accept: application/json' https://api.genius.com`
		if err := os.WriteFile(curlFile, []byte(curlCmd), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		result, err := ParseCurlFile(curlFile)
		if err != nil {
			t.Fatalf("ParseCurlFile() error = %v", err)
		}

		token, err := result.BearerToken()
		if err != nil || token != "token123" {
			t.Errorf("BearerToken() = %q, %v", token, err)
		}
	})

	t.Run("file does not exist", func(t *testing.T) {
		if _, err := ParseCurlFile("/nonexistent/file.sh"); err == nil {
			t.Error("ParseCurlFile() expected error for nonexistent file")
		}
	})
}
