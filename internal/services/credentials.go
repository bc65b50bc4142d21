package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/desertthunder/lyrx/internal/shared"
)

// Prompter asks the user for a token. It is called at most once per [Credentials].
type Prompter func(ctx context.Context) (string, error)

// Token sources reported by [Credentials.Source].
const (
	SourceNone       = "none"
	SourceExplicit   = "explicit"
	SourceConfigured = "config"
	SourceEnv        = "env"
	SourcePrompt     = "prompt"
)

// Credentials holds the bearer token of one client.
//
// Lookup order: an explicit [Credentials.Set], the configured token, the GENIUS_API_TOKEN environment variable
// (read on every call), then the prompter. A prompted answer is kept for later calls.
type Credentials struct {
	mu         sync.Mutex
	explicit   string
	configured string
	prompted   string
	asked      bool
	prompter   Prompter
	lookupEnv  func(string) (string, bool)
}

// NewCredentials creates a store seeded with a configured token and an optional prompter.
func NewCredentials(configured string, prompter Prompter) *Credentials {
	return &Credentials{
		configured: strings.TrimSpace(configured),
		prompter:   prompter,
		lookupEnv:  os.LookupEnv,
	}
}

// Set overrides every other source. An empty token clears the override.
func (c *Credentials) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.explicit = strings.TrimSpace(token)
}

// Token returns the bearer token, prompting once if nothing else provides one.
func (c *Credentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token, _ := c.peek(); token != "" {
		return token, nil
	}

	if c.prompter == nil || c.asked {
		return "", shared.ErrMissingCredential
	}

	c.asked = true
	token, err := c.prompter(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrMissingCredential, err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", shared.ErrMissingCredential
	}
	c.prompted = token
	return token, nil
}

// Source reports where the current token would come from, without prompting.
func (c *Credentials) Source() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, src := c.peek()
	return src
}

// Masked returns the current token with all but its last four characters hidden, or "" when there is none.
func (c *Credentials) Masked() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	token, _ := c.peek()
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

func (c *Credentials) peek() (string, string) {
	switch {
	case c.explicit != "":
		return c.explicit, SourceExplicit
	case c.configured != "":
		return c.configured, SourceConfigured
	}

	if c.lookupEnv != nil {
		if v, ok := c.lookupEnv(shared.TokenEnvVar); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), SourceEnv
		}
	}

	if c.prompted != "" {
		return c.prompted, SourcePrompt
	}
	return "", SourceNone
}
