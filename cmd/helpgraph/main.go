// Copyright 2026 Orbital Grid
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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/orbitalgrid/helpgraph"
	"github.com/orbitalgrid/helpgraph/ai"
	"github.com/orbitalgrid/helpgraph/graph"
	"github.com/orbitalgrid/helpgraph/reembed"
	"github.com/orbitalgrid/helpgraph/storage"
)

func main() {
	app := &cli.App{
		Name:  "helpgraph",
		Usage: "Knowledge-graph help bot over scraped portal content",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest scraped content records from a JSON file",
				ArgsUsage: "FILE",
				Action:    ingestCommand,
				Flags:     append([]cli.Flag{dataFlag(true)}, aiFlags()...),
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from the knowledge graph",
				ArgsUsage: "QUERY",
				Action:    askCommand,
				Flags:     append([]cli.Flag{dataFlag(true)}, aiFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge graph directly",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					dataFlag(true),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 5,
					},
				}, aiFlags()...),
			},
			{
				Name:      "classify",
				Usage:     "Classify a query without answering it",
				ArgsUsage: "QUERY",
				Action:    classifyCommand,
				Flags:     aiFlags(),
			},
			{
				Name:   "stats",
				Usage:  "Print knowledge graph statistics",
				Action: statsCommand,
				Flags:  []cli.Flag{dataFlag(true)},
			},
			{
				Name:   "export",
				Usage:  "Export the knowledge graph",
				Action: exportCommand,
				Flags: []cli.Flag{
					dataFlag(true),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, gml, graphml)",
						Value:   graph.FormatJSON,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file (default stdout)",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Recompute all node embeddings with a new model",
				Action: reembedCommand,
				Flags: append([]cli.Flag{
					dataFlag(true),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of nodes to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N nodes",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				}, aiFlags()...),
			},
			{
				Name:   "clear",
				Usage:  "Drop the stored knowledge graph snapshot",
				Action: clearCommand,
				Flags:  []cli.Flag{dataFlag(true)},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dataFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "data",
		Aliases:  []string{"d"},
		Usage:    "Path to the knowledge graph data directory",
		Required: required,
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "offline",
			Usage: "Run without an AI provider (lexical search, regex-only classification)",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "tagger-model",
			Usage: "Entity tagging model name",
			Value: "qwen2.5:3b",
		},
	}
}

// newBot builds a Bot from command flags.
func newBot(c *cli.Context) (*helpgraph.Bot, error) {
	var opts []helpgraph.BotOption
	if dataDir := c.String("data"); dataDir != "" {
		opts = append(opts, helpgraph.WithDataDir(dataDir))
	}
	if c.Bool("offline") {
		opts = append(opts, helpgraph.WithoutAI())
	} else {
		opts = append(opts, helpgraph.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithTaggerModel(c.String("tagger-model")),
		)))
	}
	return helpgraph.New(opts...)
}

// loadSnapshot restores the stored graph. A missing snapshot is not an
// error: the command just starts from an empty graph.
func loadSnapshot(ctx context.Context, bot *helpgraph.Bot) error {
	err := bot.Load(ctx)
	if err != nil && !errors.Is(err, storage.ErrNoSnapshot) {
		return err
	}
	return nil
}

func queryArg(c *cli.Context) (string, error) {
	queryText := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if queryText == "" {
		return "", fmt.Errorf("query text is required")
	}
	return queryText, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one input file is required")
	}
	ctx := context.Background()

	bot, err := newBot(c)
	if err != nil {
		return err
	}
	defer bot.Close()

	if err := loadSnapshot(ctx, bot); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	report, err := bot.IngestFile(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	if err := bot.Save(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d records (%d duplicates, %d failed)\n",
		report.Added, report.Duplicates, report.Failed)
	return nil
}

func askCommand(c *cli.Context) error {
	queryText, err := queryArg(c)
	if err != nil {
		return err
	}
	ctx := context.Background()

	bot, err := newBot(c)
	if err != nil {
		return err
	}
	defer bot.Close()

	if err := loadSnapshot(ctx, bot); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	return printJSON(bot.Ask(ctx, queryText))
}

func searchCommand(c *cli.Context) error {
	queryText, err := queryArg(c)
	if err != nil {
		return err
	}
	ctx := context.Background()

	bot, err := newBot(c)
	if err != nil {
		return err
	}
	defer bot.Close()

	if err := loadSnapshot(ctx, bot); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	results, err := bot.Search(ctx, queryText, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return printJSON(results)
}

func classifyCommand(c *cli.Context) error {
	queryText, err := queryArg(c)
	if err != nil {
		return err
	}

	bot, err := newBot(c)
	if err != nil {
		return err
	}
	defer bot.Close()

	return printJSON(bot.Classify(context.Background(), queryText))
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	// No AI services needed to read stats.
	bot, err := helpgraph.New(helpgraph.WithoutAI(), helpgraph.WithDataDir(c.String("data")))
	if err != nil {
		return err
	}
	defer bot.Close()

	if err := loadSnapshot(ctx, bot); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	return printJSON(bot.Stats())
}

func exportCommand(c *cli.Context) error {
	ctx := context.Background()

	bot, err := helpgraph.New(helpgraph.WithoutAI(), helpgraph.WithDataDir(c.String("data")))
	if err != nil {
		return err
	}
	defer bot.Close()

	if err := loadSnapshot(ctx, bot); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	data, err := bot.Export(c.String("format"))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if out := c.String("out"); out != "" {
		return os.WriteFile(out, data, 0644)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func reembedCommand(c *cli.Context) error {
	if c.Bool("offline") {
		return fmt.Errorf("reembed requires an AI provider")
	}
	ctx := context.Background()

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	bot, err := newBot(c)
	if err != nil {
		return err
	}
	defer bot.Close()

	if err := loadSnapshot(ctx, bot); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Data directory: %s\n", c.String("data"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := bot.Reembed(ctx, config, os.Stderr); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return bot.Save(ctx)
}

func clearCommand(c *cli.Context) error {
	ctx := context.Background()

	bot, err := helpgraph.New(helpgraph.WithoutAI(), helpgraph.WithDataDir(c.String("data")))
	if err != nil {
		return err
	}
	defer bot.Close()

	bot.Clear()
	if err := bot.Save(ctx); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Knowledge graph cleared")
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
