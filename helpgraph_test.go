package helpgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalgrid/helpgraph/core"
	"github.com/orbitalgrid/helpgraph/graph"
	"github.com/orbitalgrid/helpgraph/respond"
)

func newOfflineBot(t *testing.T, opts ...BotOption) *Bot {
	t.Helper()
	bot, err := NewWithServices(nil, nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { bot.Close() })
	return bot
}

func imageryRecord() *core.ContentRecord {
	return &core.ContentRecord{
		URL:         "https://portal.example.com/products/imagery",
		ContentType: core.ContentTypeData,
		Metadata:    map[string]string{"title": "Imagery Products"},
		TextContent: "How to download satellite imagery from the archive portal.",
		DownloadLinks: []core.DownloadLink{
			{URL: "https://portal.example.com/dl/scene.tif", Text: "Sample scene", FileType: "tif"},
		},
	}
}

func TestAskRecordsHistory(t *testing.T) {
	bot := newOfflineBot(t)

	report := bot.Ingest(context.Background(), []*core.ContentRecord{imageryRecord()})
	require.Equal(t, 1, report.Added)

	response := bot.Ask(context.Background(), "satellite imagery")
	require.NotNil(t, response)
	assert.True(t, response.Success)
	assert.Equal(t, respond.TypeDownload, response.Type)
	assert.Equal(t, core.IntentDataDownload, response.Analysis.Intent)
	require.NotEmpty(t, response.Results)
	require.NotEmpty(t, response.Sources)

	history := bot.GetHistory(10)
	require.Len(t, history, 1)
	assert.Equal(t, "satellite imagery", history[0].Query)
	assert.Same(t, response, history[0].Response)
	assert.False(t, history[0].Timestamp.IsZero())

	bot.ClearHistory()
	assert.Empty(t, bot.GetHistory(10))
}

func TestGetHistoryLimit(t *testing.T) {
	bot := newOfflineBot(t)

	for _, q := range []string{"first", "second", "third"} {
		bot.Ask(context.Background(), q)
	}

	recent := bot.GetHistory(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "second", recent[0].Query)
	assert.Equal(t, "third", recent[1].Query)

	assert.Len(t, bot.GetHistory(0), 3, "non-positive limit returns everything")
}

func TestQueryStatistics(t *testing.T) {
	bot := newOfflineBot(t)

	assert.Zero(t, bot.QueryStatistics().TotalQueries)

	bot.Ask(context.Background(), "download imagery data")
	bot.Ask(context.Background(), "help with a login problem")

	stats := bot.QueryStatistics()
	assert.Equal(t, 2, stats.TotalQueries)
	assert.Equal(t, 2, stats.SuccessfulQueries)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.Equal(t, 1, stats.IntentDistribution[string(core.IntentDataDownload)])
	assert.Equal(t, 1, stats.IntentDistribution[string(core.IntentTechnicalSupport)])
}

func TestSystemStatus(t *testing.T) {
	bot := newOfflineBot(t)
	bot.Ingest(context.Background(), []*core.ContentRecord{imageryRecord()})
	bot.Ask(context.Background(), "anything")

	status := bot.SystemStatus()
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "inactive", status.Components["ai_provider"])
	assert.Equal(t, "inactive", status.Components["snapshots"])
	assert.Equal(t, "active", status.Components["graph"])
	assert.Equal(t, 2, status.Graph.TotalNodes)
	assert.Equal(t, 1, status.ConversationCount)
	assert.False(t, status.LastUpdated.IsZero())
}

func TestSnapshotWithoutPersistence(t *testing.T) {
	bot := newOfflineBot(t)

	assert.ErrorIs(t, bot.Save(context.Background()), ErrNoPersistence)
	assert.ErrorIs(t, bot.Load(context.Background()), ErrNoPersistence)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	bot := newOfflineBot(t, WithDataDir(t.TempDir()))

	report := bot.Ingest(context.Background(), []*core.ContentRecord{imageryRecord()})
	require.Equal(t, 1, report.Added)
	require.NoError(t, bot.Save(context.Background()))

	bot.Clear()
	require.Zero(t, bot.Stats().TotalNodes)

	require.NoError(t, bot.Load(context.Background()))
	stats := bot.Stats()
	assert.Equal(t, 2, stats.TotalNodes)
	assert.Equal(t, 1, stats.TotalEdges)
}

func TestReembedWithoutProvider(t *testing.T) {
	bot := newOfflineBot(t)
	err := bot.Reembed(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoEmbedder)
}

func TestExport(t *testing.T) {
	bot := newOfflineBot(t)
	bot.Ingest(context.Background(), []*core.ContentRecord{imageryRecord()})

	data, err := bot.Export(graph.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), "portal.example.com")

	_, err = bot.Export("dot")
	assert.ErrorIs(t, err, graph.ErrUnsupportedFormat)
}
