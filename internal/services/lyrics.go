package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/desertthunder/lyrx/internal/selector"
	"github.com/desertthunder/lyrx/internal/shared"
)

// Lyrics downloads the public song page at songURL and extracts the lyrics text.
//
// The page is fetched without the API token. Section headers such as "[Chorus]" stay on their own lines.
func (c *Client) Lyrics(ctx context.Context, songURL string) (string, error) {
	u, err := url.Parse(songURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: song url %q", shared.ErrInvalidArgument, songURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := c.pageClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", u.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("lyrics page", "url", u.String(), "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &shared.RequestFailedError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse song page: %w", err)
	}

	lyrics := extractLyrics(doc)
	if lyrics == "" {
		return "", fmt.Errorf("%w: no lyrics on %s", shared.ErrNotFound, u.String())
	}
	return lyrics, nil
}

// LyricsByID looks up the song's page URL and scrapes it.
func (c *Client) LyricsByID(ctx context.Context, id int64) (string, error) {
	song, err := c.Song(ctx, id, "")
	if err != nil {
		return "", err
	}

	songURL := song.URL()
	if songURL == "" {
		return "", fmt.Errorf("%w: song %d has no url", shared.ErrNotFound, id)
	}
	return c.Lyrics(ctx, songURL)
}

// LyricsSearch resolves "title artist" to a song with sel and scrapes its lyrics.
func (c *Client) LyricsSearch(ctx context.Context, artist, title string, sel selector.Selector) (string, error) {
	query := strings.TrimSpace(strings.TrimSpace(title) + " " + strings.TrimSpace(artist))
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("%w: title", shared.ErrMissingParameter)
	}

	id, err := c.ResolveSong(ctx, query, sel)
	if err != nil {
		return "", err
	}
	return c.LyricsByID(ctx, id)
}

func extractLyrics(doc *goquery.Document) string {
	var blocks []string
	doc.Find("[data-lyrics-container]").Each(func(_ int, s *goquery.Selection) {
		s.Find("[data-exclude-from-selection]").Remove()
		s.Find("br").ReplaceWithHtml("\n")

		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	return strings.Join(blocks, "\n")
}
