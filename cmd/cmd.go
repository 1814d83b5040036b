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

// setupCommand handles database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize catalog database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// treeCommand handles audio tree registration and scanning.
func treeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tree",
		Usage: "Manage catalogued audio file trees",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Register an audio tree root",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "type",
						Usage: "Tree type label (Songs, Albums, ...)",
					},
				},
				Action: r.TreeAdd,
			},
			{
				Name:  "remove",
				Usage: "Unregister a tree and drop its catalogued tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.TreeRemove,
			},
			{
				Name:  "list",
				Usage: "List registered trees",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TreeList,
			},
			{
				Name:  "update",
				Usage: "Scan a tree and reconcile its catalogued tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "checksums",
						Usage: "Recompute checksums for all files, not just new ones",
					},
				},
				Action: r.TreeUpdate,
			},
			{
				Name:  "tracks",
				Usage: "List catalogued tracks under a path",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.StringSliceFlag{
						Name:  "filter",
						Usage: "Only list tracks matching these literal paths or prefixes",
					},
				},
				Action: r.TreeTracks,
			},
			{
				Name:  "mirror",
				Usage: "Configure the mirror destination for a registered tree",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
					&cli.StringArg{Name: "destination"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.TreeMirror,
			},
		},
	}
}

// checksumCommand handles content fingerprint maintenance.
func checksumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "checksum",
		Usage: "Maintain track content fingerprints",
		Commands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Recompute and store checksums for tracks under a path",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.ChecksumUpdate,
			},
			{
				Name:  "verify",
				Usage: "Verify stored checksums against file contents",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.ChecksumVerify,
			},
		},
	}
}

// targetCommand handles persisted sync target descriptors.
func targetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "target",
		Usage: "Manage configured sync targets",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Persist a named sync target",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "src",
						Usage:    "Source tree path",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "dst",
						Usage:    "Destination path or rsync remote",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Target kind (directory or rsync)",
						Value: "directory",
					},
					&cli.StringFlag{
						Name:  "rename",
						Usage: "Filename rename callback (ntfs)",
					},
					&cli.StringFlag{
						Name:  "flags",
						Usage: "Extra transfer flags, whitespace separated",
					},
					&cli.BoolFlag{
						Name:  "delete",
						Usage: "Delete extraneous destination files",
					},
				},
				Action: r.TargetAdd,
			},
			{
				Name:  "remove",
				Usage: "Delete a configured sync target",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.TargetRemove,
			},
			{
				Name:  "list",
				Usage: "List configured sync targets",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TargetList,
			},
		},
	}
}

// syncCommand runs the synchronization engine.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Synchronize trees to their targets",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Sync the named targets or tree paths",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "threads",
						Usage: "Concurrent sync workers",
					},
					&cli.BoolFlag{
						Name:  "delete",
						Usage: "Delete extraneous destination files",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Report work without writing anything",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "Log transfer command lines",
					},
				},
				Action: r.SyncRun,
			},
		},
	}
}

// codecCommand inspects the audio format registry.
func codecCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "codec",
		Usage: "Audio format registry operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List registered codecs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CodecList,
			},
			{
				Name:  "convert",
				Usage: "Transcode an audio file between registered formats",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "input"},
					&cli.StringArg{Name: "output"},
				},
				Action: r.CodecConvert,
			},
		},
	}
}
