package storage

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/decisiondeft/decision-deft/internal/domain"
	"github.com/decisiondeft/decision-deft/internal/services"
)

func newTestAdapter(t *testing.T) (Adapter, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	adapter, err := NewSnapshotAdapter(db, &services.NoOpLogger{})
	require.NoError(t, err)
	return adapter, db
}

func sampleCollection() []domain.Conversation {
	return []domain.Conversation{
		{
			ID:    "b2c3",
			Title: "Should I take the job offer?",
			History: []domain.Message{
				domain.NewUserMessage("Should I take the job offer?"),
				domain.NewAssistantMessage("Let's weigh it together. What matters most to you?"),
			},
			CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:        "a1b2",
			Title:     domain.DefaultTitle,
			History:   []domain.Message{},
			CreatedAt: time.Date(2025, 3, 13, 18, 0, 0, 0, time.UTC),
		},
	}
}

func TestLoadEmptyStore(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	collection, err := adapter.Load()
	require.NoError(t, err)
	require.Empty(t, collection)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	want := sampleCollection()

	require.NoError(t, adapter.Save(want))

	got, err := adapter.Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSaveOverwritesSnapshot(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	require.NoError(t, adapter.Save(sampleCollection()))
	require.NoError(t, adapter.Save([]domain.Conversation{}))

	got, err := adapter.Load()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestClearRemovesSnapshot(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	require.NoError(t, adapter.Save(sampleCollection()))
	require.NoError(t, adapter.Clear())

	got, err := adapter.Load()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLoadTamperedPayloadYieldsEmpty(t *testing.T) {
	adapter, db := newTestAdapter(t)

	rec := snapshotRecord{Key: SnapshotKey, Value: "{not valid json"}
	require.NoError(t, db.Create(&rec).Error)

	got, err := adapter.Load()
	require.NoError(t, err, "a corrupt snapshot must read as no data, not an error")
	require.Empty(t, got)
}

func TestLoadToleratesUnknownFields(t *testing.T) {
	adapter, db := newTestAdapter(t)

	rec := snapshotRecord{
		Key:   SnapshotKey,
		Value: `[{"id":"x1","title":"Old format","history":[],"createdAt":"2025-01-01T00:00:00Z","pinned":true}]`,
	}
	require.NoError(t, db.Create(&rec).Error)

	got, err := adapter.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Old format", got[0].Title)
}
