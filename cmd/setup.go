package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/desertthunder/spotx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default configuration file to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	r.writePlain("✓ Configuration written to %s\n", r.configPath)
	return nil
}

// SetupDatabase initializes the token database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	if _, err := r.tokenStore(); err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	if !r.config.Store.PersistToken {
		r.writePlainln("Set [store] persist_token = true in %s to store tokens here.", r.configPath)
	}
	return nil
}

// SetupHeaders stores browser session headers from a cURL command under [client.headers].
//
// The token endpoint hands out tokens to the browser session these headers carry.
func (r *Runner) SetupHeaders(ctx context.Context, cmd *cli.Command) error {
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
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	headers := curlHeaders.SessionHeaders()
	if len(headers) == 0 {
		return fmt.Errorf("%w: cURL command carries no reusable headers", shared.ErrInvalidArgument)
	}

	config, err := shared.LoadConfigOrDefault(r.configPath)
	if err != nil {
		return err
	}
	config.Client.MergeHeaders(headers)

	if err := shared.SaveConfig(r.configPath, config); err != nil {
		return err
	}
	r.config.Client.MergeHeaders(headers)

	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)

	r.writePlain("✓ Stored %d header(s) in %s\n", len(names), r.configPath)
	for _, k := range names {
		r.writePlain("  %s\n", k)
	}
	r.writePlainln("Run 'spotx token refresh' to check the session.")
	return nil
}
