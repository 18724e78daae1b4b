package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestFileMessageDAO_FindAllMissingFile(t *testing.T) {
	d := NewFileMessageDAO(filepath.Join(t.TempDir(), "messages.json"))

	messages, err := d.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestFileMessageDAO_FindAllBlankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o644))

	messages, err := NewFileMessageDAO(path).FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFileMessageDAO_InsertThenFindAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	now := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	d := NewFileMessageDAO(path, WithFileClock(fixedClock(now)))

	saved, err := d.Insert(context.Background(), ContactMessage{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Message: "Hello, I would like to collaborate on a project.",
		IP:      "10.0.0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), saved.MessageID)
	assert.Equal(t, now.Truncate(time.Millisecond), saved.Timestamp)

	messages, err := d.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, saved.MessageID, messages[0].MessageID)
	assert.Equal(t, "Ada Lovelace", messages[0].Name)
	assert.Equal(t, "ada@example.com", messages[0].Email)
	assert.Equal(t, "10.0.0.1", messages[0].IP)
	assert.True(t, saved.Timestamp.Equal(messages[0].Timestamp))
}

func TestFileMessageDAO_FileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewFileMessageDAO(path, WithFileClock(fixedClock(now)))

	_, err := d.Insert(context.Background(), ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "0123456789", IP: "::1"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[\n  {\n    \"id\": 1709294400000,")
	assert.Contains(t, string(data), `"timestamp": "2024-03-01T12:00:00Z"`)
	assert.Contains(t, string(data), `"ip": "::1"`)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.NotContains(t, raw[0], "ID")
}

func TestFileMessageDAO_IDsIncreaseWhenClockStalls(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewFileMessageDAO(filepath.Join(t.TempDir(), "messages.json"), WithFileClock(fixedClock(now)))

	first, err := d.Insert(context.Background(), ContactMessage{Name: "a"})
	require.NoError(t, err)
	second, err := d.Insert(context.Background(), ContactMessage{Name: "b"})
	require.NoError(t, err)

	assert.Equal(t, first.MessageID+1, second.MessageID)
}

func TestFileMessageDAO_KeepsExistingRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	existing := `[{"id": 1, "name": "Old", "email": "old@example.com", "message": "kept around", "timestamp": "2023-01-01T00:00:00.000Z", "ip": "1.1.1.1"}]`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	d := NewFileMessageDAO(path)
	_, err := d.Insert(context.Background(), ContactMessage{Name: "New"})
	require.NoError(t, err)

	messages, err := d.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Old", messages[0].Name)
	assert.Equal(t, int64(1), messages[0].MessageID)
	assert.Equal(t, "New", messages[1].Name)
}

func TestFileMessageDAO_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	d := NewFileMessageDAO(path)

	_, err := d.FindAll(context.Background())
	require.ErrorIs(t, err, ErrMalformedStore)

	_, err = d.Insert(context.Background(), ContactMessage{Name: "x"})
	require.ErrorIs(t, err, ErrMalformedStore)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestFileMessageDAO_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	d := NewFileMessageDAO(filepath.Join(blocker, "messages.json"))

	_, err := d.Insert(context.Background(), ContactMessage{Name: "x"})
	require.Error(t, err)
}

func TestFileMessageDAO_ConcurrentInsertsKeepEveryRecord(t *testing.T) {
	d := NewFileMessageDAO(filepath.Join(t.TempDir(), "messages.json"))

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := d.Insert(context.Background(), ContactMessage{Name: fmt.Sprintf("writer-%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	messages, err := d.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, writers)

	seen := make(map[int64]bool, writers)
	for _, m := range messages {
		assert.False(t, seen[m.MessageID], "duplicate id %d", m.MessageID)
		seen[m.MessageID] = true
	}
}

func TestFileMessageDAO_CanceledContext(t *testing.T) {
	d := NewFileMessageDAO(filepath.Join(t.TempDir(), "messages.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Insert(ctx, ContactMessage{Name: "x"})
	require.ErrorIs(t, err, context.Canceled)
}
