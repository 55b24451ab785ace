// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/FatihSuicmez/TUIK-MCP/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	defaults := config.Default()
	return &cli.App{
		Name:  "tuik",
		Usage: "Searchable knowledge base over TÜİK statistics tables",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file (missing file means defaults)",
				Value:   "tuik.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   defaults.LogLevel,
			},
			&cli.StringFlag{
				Name:  "log-dir",
				Usage: "Also write logs to a daily file in this directory",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Root folder holding one subfolder per category",
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "Path to the data.json manifest",
			},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			{
				Name:   "scan",
				Usage:  "Build the manifest by scanning the category folders",
				Action: scanCommand,
			},
			{
				Name:   "ingest",
				Usage:  "Extract fragments from pending files and rebuild the index",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "reprocess-failed",
						Usage: "Only retry files listed in the failure log",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of files extracted concurrently",
						Value:   defaults.Ingestion.Workers,
					},
					&cli.BoolFlag{
						Name:  "skip-index",
						Usage: "Stop after extraction without embedding",
					},
				},
			},
			{
				Name:   "build-index",
				Usage:  "Embed the checkpoint corpus and write a new index",
				Action: buildIndexCommand,
			},
			{
				Name:   "status",
				Usage:  "Show ingestion progress and index state",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the status as JSON",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Retrieve the fragments closest to a question",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of fragments to return",
						Value:   5,
					},
					&cli.BoolFlag{
						Name:  "prompt",
						Usage: "Print the assembled prompt instead of the hits",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the tools over MCP",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "transport",
						Aliases: []string{"t"},
						Usage:   "MCP transport (stdio, http)",
						Value:   defaults.Server.Transport,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "Listen host for the http transport",
						Value: defaults.Server.Host,
					},
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Listen port for the http transport",
						Value:   defaults.Server.Port,
					},
				},
			},
		},
	}
}
