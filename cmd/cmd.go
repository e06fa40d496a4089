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

// serveCommand runs the HTTP API server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the playlist API server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// adminCommand launches the interactive admin panel
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "admin",
		Aliases: []string{"ui"},
		Usage:   "Launch the interactive admin panel",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "server",
				Usage: "Server base URL (overrides config)",
			},
		},
		Action: r.Admin,
	}
}

// watchCommand runs the reconciling display client
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Follow the live song list, reconciling pushes and polls",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "server",
				Usage: "Server base URL (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print each applied view as JSON",
			},
		},
		Action: r.Watch,
	}
}

// setupCommand initializes configuration and the data directory
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the data directory",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// exportCommand writes the song list to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the song list to CSV, Markdown, text or JSON",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: csv, markdown, text, json",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
			&cli.BoolFlag{
				Name:  "remote",
				Usage: "Fetch the snapshot from the server instead of local files",
			},
		},
		Action: r.Export,
	}
}
