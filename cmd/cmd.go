// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// serveCommand starts the REST API server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the REST API server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override the configured listen port",
			},
			&cli.StringFlag{
				Name:    "environment",
				Aliases: []string{"e"},
				Usage:   "Override the configured environment name",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand initializes the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.SetupDatabase,
	}
}

// exportCommand writes library data to files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export library data",
		Commands: []*cli.Command{
			{
				Name:  "likes",
				Usage: "Export a user's liked songs",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User ID whose likes to export",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (csv, text or json)",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.ExportLikes,
			},
			{
				Name:  "batch",
				Usage: "Export a recommendation batch as Markdown",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User ID that owns the batch",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Batch ID to export",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.ExportBatch,
			},
		},
	}
}

// browseCommand opens the terminal browser.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse stored songs and likes in the terminal",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User ID whose likes to include",
			},
		},
		Action: r.Browse,
	}
}
