// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
			Sources: cli.EnvVars("SPOTX_CONFIG"),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Log requests, pages and token refreshes",
		},
	}
}

// lookupFlags are shared by the entity lookup commands.
func lookupFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: json, csv, markdown or text",
			Value:   "json",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write files to this directory instead of stdout",
		},
	}, extra...)
}

func firstPageFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "first-page",
		Usage: "Only fetch the first page of sub-collections",
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playlist",
		Aliases:   []string{"pl"},
		Usage:     "Fetch a playlist and its tracks",
		ArgsUsage: "<url-or-id>",
		Flags:     lookupFlags(firstPageFlag()),
		Action:    r.Playlist,
	}
}

func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "album",
		Usage:     "Fetch an album and its tracks",
		ArgsUsage: "<url-or-id>",
		Flags:     lookupFlags(firstPageFlag()),
		Action:    r.Album,
	}
}

func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "track",
		Usage:     "Fetch a single track",
		ArgsUsage: "<url-or-id>",
		Flags:     lookupFlags(),
		Action:    r.Track,
	}
}

func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "artist",
		Usage:     "Fetch an artist and its albums",
		ArgsUsage: "<url-or-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "text",
				Usage: "Print a plain text album list instead of JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
			firstPageFlag(),
		},
		Action: r.Artist,
	}
}

func discographyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "discography",
		Aliases:   []string{"disco"},
		Usage:     "Fetch every album of an artist with its tracks",
		ArgsUsage: "<url-or-id>",
		Flags:     lookupFlags(firstPageFlag()),
		Action:    r.Discography,
	}
}

// browseCommand launches the interactive browser.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Aliases:   []string{"tui", "ui"},
		Usage:     "Browse an artist's albums and tracks interactively",
		ArgsUsage: "<url-or-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "album",
				Usage: "Treat the reference as an album instead of an artist",
			},
			firstPageFlag(),
		},
		Action: r.Browse,
	}
}

// tokenCommand inspects and manages the access token.
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Inspect and manage the access token",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the current token (masked) and its expiry",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.TokenShow,
			},
			{
				Name:   "refresh",
				Usage:  "Fetch a new token regardless of expiry",
				Action: r.TokenRefresh,
			},
			{
				Name:   "clear",
				Usage:  "Delete every stored token",
				Action: r.TokenClear,
			},
		},
	}
}

// setupCommand handles setup operations for configuration, database and headers.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the default configuration file",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the token database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "headers",
				Usage: "Store browser session headers from a cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.SetupHeaders,
			},
		},
	}
}
