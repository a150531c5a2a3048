package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	loggerApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			require.NoError(t, loggerApp().Run([]string{"test", "--log-level", level}))
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			require.NoError(t, loggerApp().Run([]string{"test", "--log-level", level}))
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := loggerApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("alias -l works", func(t *testing.T) {
		require.NoError(t, loggerApp().Run([]string{"test", "-l", "debug"}))
	})

	// Restore a default logger so other tests are unaffected.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func TestAIFlagDefaults(t *testing.T) {
	flags := aiFlags()

	byName := map[string]cli.Flag{}
	for _, flag := range flags {
		byName[flag.Names()[0]] = flag
	}

	host, ok := byName["host"].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434/v1", host.Value)

	model, ok := byName["embedding-model"].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "embeddinggemma", model.Value)

	tagger, ok := byName["tagger-model"].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "qwen2.5:3b", tagger.Value)

	offline, ok := byName["offline"].(*cli.BoolFlag)
	require.True(t, ok)
	assert.False(t, offline.Value)
}

func TestDataFlagRequired(t *testing.T) {
	flag := dataFlag(true)
	assert.True(t, flag.Required)
	assert.Equal(t, []string{"d"}, flag.Aliases)
}

func writeRecordsFile(t *testing.T) string {
	t.Helper()

	records := []map[string]any{
		{
			"url":          "https://portal.example.com/faq",
			"content_type": "faq",
			"metadata":     map[string]string{"title": "Portal FAQ"},
			"text_content": "Frequently asked questions about satellite data access.",
			"faqs": []map[string]string{
				{
					"question":   "How do I reset my password?",
					"answer":     "Use the account settings page.",
					"source_url": "https://portal.example.com/faq#reset",
				},
			},
		},
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestIngestStatsExportFlow(t *testing.T) {
	dataDir := t.TempDir()
	recordsFile := writeRecordsFile(t)

	app := &cli.App{
		Name: "helpgraph",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags:  append([]cli.Flag{dataFlag(true)}, aiFlags()...),
			},
			{
				Name:   "stats",
				Action: statsCommand,
				Flags:  []cli.Flag{dataFlag(true)},
			},
			{
				Name:   "clear",
				Action: clearCommand,
				Flags:  []cli.Flag{dataFlag(true)},
			},
		},
	}

	err := app.Run([]string{"helpgraph", "ingest", "--data", dataDir, "--offline", recordsFile})
	require.NoError(t, err)

	err = app.Run([]string{"helpgraph", "stats", "--data", dataDir})
	require.NoError(t, err)

	err = app.Run([]string{"helpgraph", "clear", "--data", dataDir})
	require.NoError(t, err)
}

func TestIngestRequiresFile(t *testing.T) {
	app := &cli.App{
		Name: "helpgraph",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags:  append([]cli.Flag{dataFlag(true)}, aiFlags()...),
			},
		},
	}

	err := app.Run([]string{"helpgraph", "ingest", "--data", t.TempDir(), "--offline"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file")
}

func TestAskRequiresQuery(t *testing.T) {
	app := &cli.App{
		Name: "helpgraph",
		Commands: []*cli.Command{
			{
				Name:   "ask",
				Action: askCommand,
				Flags:  append([]cli.Flag{dataFlag(true)}, aiFlags()...),
			},
		},
	}

	err := app.Run([]string{"helpgraph", "ask", "--data", t.TempDir(), "--offline"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query text")
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
