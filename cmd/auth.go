package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthSet uses the given token for this run and, with --save, persists it to the config file.
func (r *Runner) AuthSet(ctx context.Context, cmd *cli.Command) error {
	token := strings.TrimSpace(cmd.StringArg("token"))
	if token == "" {
		return fmt.Errorf("%w: token", shared.ErrMissingArgument)
	}
	return r.applyToken(token, cmd.Bool("save"))
}

// AuthImport pulls the bearer token out of a cURL command copied from the browser.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Debug("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Debug("parsed cURL command")
	}

	token, err := curlHeaders.BearerToken()
	if err != nil {
		return err
	}
	return r.applyToken(token, cmd.Bool("save"))
}

func (r *Runner) applyToken(token string, save bool) error {
	r.client.SetToken(token)
	r.config.Credentials.Genius.AccessToken = token

	if !save {
		r.writePlain("✓ Token set for this run (%s)\n", r.client.Credentials().Masked())
		r.writePlain("Pass --save to write it to %s\n", r.configPath)
		return nil
	}

	if r.configPath == "" {
		return fmt.Errorf("%w: no config path to save to", shared.ErrMissingConfig)
	}
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return err
	}

	r.logger.Info("token saved", "path", r.configPath)
	return r.writePlain("✓ Token saved to %s (%s)\n", r.configPath, r.client.Credentials().Masked())
}

// AuthStatus reports the token source and, with --verify, makes one request with it.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	creds := r.client.Credentials()
	source := creds.Source()

	r.writePlainHeader("Genius authentication")
	r.writePlain("Source: %s\n", source)
	if source == services.SourceNone {
		r.writePlain("Token:  (none)\n")
		r.writePlain("Set one with 'lyrx auth set', the config file, or %s\n", shared.TokenEnvVar)
	} else {
		r.writePlain("Token:  %s\n", creds.Masked())
	}
	r.writePlain("API:    %s\n", r.client.BaseURL())

	if !cmd.Bool("verify") {
		return nil
	}

	if _, err := r.client.Search(ctx, "Genius", services.SearchQuery{PerPage: 1}); err != nil {
		r.writePlain("Verify: ✗ %v\n", err)
		return err
	}
	return r.writePlain("Verify: ✓ token accepted\n")
}
