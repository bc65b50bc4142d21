package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/lyrx/internal/shared"
)

// RequestInfo describes one executed request.
type RequestInfo struct {
	Path     string
	Status   int
	Duration time.Duration
}

// Options configures a [Client]. Zero values fall back to package defaults.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *log.Logger
	UserAgent  string
	Token      string
	Prompter   Prompter
	Pacer      Pacer
	PerPage    int
	OnRequest  func(RequestInfo)
}

// Client talks to the Genius API with its own credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pageClient *http.Client
	logger     *log.Logger
	userAgent  string
	creds      *Credentials
	pacer      Pacer
	perPage    int
	onRequest  func(RequestInfo)
}

// NewClient creates a client from opts.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient, pageClient := opts.HTTPClient, opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout, CheckRedirect: noRedirect}
		pageClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
		logger.SetLevel(log.WarnLevel)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	pacer := opts.Pacer
	if pacer == nil {
		pacer = NewRandomPacer(DefaultMinDelay, DefaultMaxDelay)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		pageClient: pageClient,
		logger:     logger,
		userAgent:  userAgent,
		creds:      NewCredentials(opts.Token, opts.Prompter),
		pacer:      pacer,
		perPage:    clampPerPage(opts.PerPage),
		onRequest:  opts.OnRequest,
	}
}

// noRedirect makes a 3xx from the API the final response.
func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

// NewClientFromConfig builds a client from the [credentials.genius] and [client] config sections.
func NewClientFromConfig(cfg *shared.Config, logger *log.Logger, prompter Prompter) *Client {
	minDelay, maxDelay := cfg.Client.Delays()
	return NewClient(Options{
		BaseURL:   cfg.Credentials.Genius.BaseURL,
		Timeout:   cfg.Client.TimeoutDuration(),
		Logger:    logger,
		UserAgent: cfg.Credentials.Genius.UserAgent,
		Token:     cfg.Credentials.Genius.AccessToken,
		Prompter:  prompter,
		Pacer:     NewRandomPacer(minDelay, maxDelay),
		PerPage:   cfg.Client.PerPage,
	})
}

// Credentials returns the client's token store.
func (c *Client) Credentials() *Credentials { return c.creds }

// SetToken overrides the client's token.
func (c *Client) SetToken(token string) { c.creds.Set(token) }

// BaseURL returns the API base the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// PerPage returns the default page size.
func (c *Client) PerPage() int { return c.perPage }

// Execute issues one authorized GET for path and returns the "response" member of the reply.
func (c *Client) Execute(ctx context.Context, path string, q Query) (Document, error) {
	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, err
	}

	fullURL := c.baseURL + path
	if enc := q.Encode(); enc != "" {
		fullURL += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	elapsed := time.Since(start)
	c.logger.Debug("request", "path", path, "query", q.Encode(), "status", resp.StatusCode, "duration", elapsed)
	if c.onRequest != nil {
		c.onRequest(RequestInfo{Path: path, Status: resp.StatusCode, Duration: elapsed})
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &shared.RequestFailedError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return decodeResponse(body)
}

func decodeResponse(body []byte) (Document, error) {
	var envelope struct {
		Response map[string]any `json:"response"`
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if envelope.Response == nil {
		return Document{}, nil
	}
	return Document(envelope.Response), nil
}
