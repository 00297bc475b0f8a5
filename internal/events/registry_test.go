package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Unmarshal(t *testing.T) {
	registry := NewRegistry()
	registry.Register(EventProfileImportFailed, func() Event { return &ProfileImportFailed{} })

	raw := RawEvent{
		EventType: EventProfileImportFailed,
		Payload:   `{"type":"profile.import_failed","entity_type":"profile","entity_id":0,"occurred_at":"2024-01-01T00:00:00Z","batch_id":"b1","profile":"Friends","reason":"boom","rolled_back":true}`,
	}

	event, err := registry.Unmarshal(raw)
	require.NoError(t, err)

	failed, ok := event.(*ProfileImportFailed)
	require.True(t, ok)
	assert.Equal(t, "Friends", failed.Profile)
	assert.Equal(t, "boom", failed.Reason)
	assert.True(t, failed.RolledBack)
	assert.Equal(t, EntityProfile, failed.EntityType())
}

func TestRegistry_UnmarshalUnknownType(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Unmarshal(RawEvent{EventType: "unknown.event", Payload: `{}`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestRegistry_UnmarshalInvalidJSON(t *testing.T) {
	registry := NewRegistry()
	registry.Register(EventTransferUpdate, func() Event { return &TransferUpdate{} })

	_, err := registry.Unmarshal(RawEvent{EventType: EventTransferUpdate, Payload: `{invalid json`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal event payload")
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()

	for _, eventType := range []string{
		EventTransferUpdate,
		EventCatalogLoaded,
		EventBatchStarted,
		EventBatchCompleted,
		EventProfileImported,
		EventProfileSkipped,
		EventProfileImportFailed,
	} {
		_, err := registry.Unmarshal(RawEvent{EventType: eventType, Payload: `{}`})
		assert.NoError(t, err, "event type %s should be registered", eventType)
	}
}

func TestRegistry_UnmarshalBatchCompleted(t *testing.T) {
	event, err := DefaultRegistry().Unmarshal(RawEvent{
		EventType: EventBatchCompleted,
		Payload:   `{"type":"import.batch.completed","batch_id":"abc","imported":2,"skipped":1,"failed":1}`,
	})
	require.NoError(t, err)

	completed, ok := event.(*BatchCompleted)
	require.True(t, ok)
	assert.Equal(t, "abc", completed.BatchID)
	assert.Equal(t, 2, completed.Imported)
	assert.Equal(t, 1, completed.Skipped)
	assert.Equal(t, 1, completed.Failed)
}
