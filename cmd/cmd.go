// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func seedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "artist",
			Aliases: []string{"a"},
			Usage:   "Seed artist name (repeatable), overrides the library scan",
		},
		&cli.StringFlag{
			Name:    "library",
			Aliases: []string{"l"},
			Usage:   "Music library directory to scan for seed artists",
		},
	}
}

// setupCommand initializes the configuration file and genre cache database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file, database and run migrations",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Undo the most recent schema migration instead of applying",
			},
		},
		Action: r.SetupDatabase,
	}
}

// authCommand runs the Spotify OAuth flow.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authenticate with Spotify using OAuth2",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Auth,
	}
}

// discoverCommand runs phase 1: the related-artist crawl.
func discoverCommand(r *Runner) *cli.Command {
	flags := seedFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:  "artifact",
			Usage: "Path for the recommendation artifact",
		},
		&cli.IntFlag{
			Name:  "max-per-seed",
			Usage: "Maximum related artists kept per seed (0 uses config)",
		},
		&cli.BoolFlag{
			Name:  "resume",
			Usage: "Skip seeds already present in the artifact",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output the summary as JSON",
		},
	)

	return &cli.Command{
		Name:    "discover",
		Aliases: []string{"disc"},
		Usage:   "Crawl MusicBrainz for artists related to your library",
		Flags:   flags,
		Action:  r.Discover,
	}
}

// curateCommand runs phase 2: genre classification and playlist building.
func curateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "curate",
		Usage: "Classify discovered artists by genre and build Spotify playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "artifact",
				Usage: "Path to the recommendation artifact",
			},
			&cli.IntFlag{
				Name:  "max-tracks",
				Usage: "Maximum tracks per playlist (0 uses config)",
			},
			&cli.IntFlag{
				Name:  "top-per-artist",
				Usage: "Top tracks taken per artist (0 uses config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the summary as JSON",
			},
		},
		Action: r.Curate,
	}
}

// runCommand chains discover and curate in one invocation.
func runCommand(r *Runner) *cli.Command {
	flags := seedFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:  "artifact",
			Usage: "Path for the recommendation artifact",
		},
		&cli.BoolFlag{
			Name:  "resume",
			Usage: "Skip seeds already present in the artifact",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output the summary as JSON",
		},
	)

	return &cli.Command{
		Name:   "run",
		Usage:  "Run the full pipeline: discover, classify, build playlists",
		Flags:  flags,
		Action: r.RunPipeline,
	}
}

// cacheCommand inspects and clears the genre cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Genre cache operations",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show genre cache statistics",
				Action: r.CacheStats,
			},
			{
				Name:   "purge",
				Usage:  "Delete all cached genre entries",
				Action: r.CachePurge,
			},
		},
	}
}

// tuiCommand launches the interactive terminal interface.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Run the pipeline interactively in the terminal UI",
		Flags:  seedFlags(),
		Action: r.TUI,
	}
}
