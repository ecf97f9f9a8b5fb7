package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarproof/verification-service/internal/models"
	"github.com/scholarproof/verification-service/internal/repository"
)

type fakeObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	meta    map[string]map[string]string
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{
		objects: make(map[string][]byte),
		meta:    make(map[string]map[string]string),
	}
}

func (f *fakeObjectStorage) PutObject(_ context.Context, key string, body []byte, metadata map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = body
	f.meta[key] = metadata
	return nil
}

func (f *fakeObjectStorage) GetObject(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.objects[key]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return body, nil
}

func (f *fakeObjectStorage) RemoveObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	delete(f.meta, key)
	return nil
}

func (f *fakeObjectStorage) ListKeys(_ context.Context, prefix string, maxKeys int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := []string{}
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if len(keys) > maxKeys {
		keys = keys[:maxKeys]
	}
	return keys, nil
}

func (f *fakeObjectStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

type capturedEvent struct {
	routingKey string
	event      interface{}
}

type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (p *capturePublisher) Publish(_ context.Context, routingKey string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{routingKey: routingKey, event: event})
	return nil
}

func (p *capturePublisher) Close() error { return nil }

var testArchiveConfig = ArchiveConfig{
	Endpoint:  "minio.local:9000",
	AccessKey: "key",
	SecretKey: "secret",
	Bucket:    "archives",
	Region:    "us-east-1",
}

func newTestArchiveService(storage *fakeObjectStorage, publisher *capturePublisher, at time.Time) *archiveService {
	svc := NewArchiveService(storage, publisher, testArchiveConfig, zerolog.Nop()).(*archiveService)
	svc.now = func() time.Time { return at }
	return svc
}

func sampleState(documentID string, updatedAt time.Time) *models.WorkflowState {
	return &models.WorkflowState{
		DocumentID:   documentID,
		DocumentName: "thesis.pdf",
		PlagiarismResult: &models.PlagiarismSummary{
			PlagiarismScore:  12,
			OriginalityScore: 88,
		},
		Metadata: models.WorkflowMetadata{
			CreatedAt: updatedAt.Add(-time.Hour),
			UpdatedAt: updatedAt,
			UserID:    "user-1",
		},
	}
}

func TestArchiveKeyAndURL(t *testing.T) {
	storage := newFakeObjectStorage()
	at := time.Date(2026, 3, 15, 10, 30, 45, 123*int(time.Millisecond), time.UTC)
	svc := newTestArchiveService(storage, &capturePublisher{}, at)

	archiveURL, err := svc.Archive(context.Background(), sampleState("doc-1", at), "user-1")
	require.NoError(t, err)

	wantKey := "workflows/user-1/doc-1_2026-03-15T10-30-45-123Z.json"
	assert.Equal(t, "http://minio.local:9000/archives/"+wantKey, archiveURL)

	_, ok := storage.objects[wantKey]
	assert.True(t, ok, "snapshot stored under the timestamped key")

	assert.Equal(t, map[string]string{
		"document-id":   "doc-1",
		"document-name": "thesis.pdf",
		"user-id":       "user-1",
		"archived-at":   "2026-03-15T10:30:45.123Z",
	}, storage.meta[wantKey])
}

func TestArchivePublishesEvent(t *testing.T) {
	publisher := &capturePublisher{}
	at := time.Date(2026, 3, 15, 10, 30, 45, 0, time.UTC)
	svc := newTestArchiveService(newFakeObjectStorage(), publisher, at)

	archiveURL, err := svc.Archive(context.Background(), sampleState("doc-1", at), "user-1")
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "workflow.archived", publisher.events[0].routingKey)

	event, ok := publisher.events[0].event.(models.WorkflowArchivedEvent)
	require.True(t, ok)
	assert.Equal(t, "doc-1", event.DocumentID)
	assert.Equal(t, archiveURL, event.ArchiveURL)
}

func TestArchiveAnonymousUserFallback(t *testing.T) {
	storage := newFakeObjectStorage()
	at := time.Date(2026, 3, 15, 10, 30, 45, 0, time.UTC)
	svc := newTestArchiveService(storage, &capturePublisher{}, at)

	archiveURL, err := svc.Archive(context.Background(), sampleState("doc-1", at), "")
	require.NoError(t, err)
	assert.Contains(t, archiveURL, "/workflows/anonymous/")
}

func TestArchiveResumeRoundTrip(t *testing.T) {
	storage := newFakeObjectStorage()
	at := time.Date(2026, 3, 15, 10, 30, 45, 123*int(time.Millisecond), time.UTC)
	svc := newTestArchiveService(storage, &capturePublisher{}, at)

	state := sampleState("doc-1", at)
	archiveURL, err := svc.Archive(context.Background(), state, "user-1")
	require.NoError(t, err)

	record, err := svc.Resume(context.Background(), archiveURL)
	require.NoError(t, err)

	assert.Equal(t, "doc-1", record.DocumentID)
	assert.Equal(t, "thesis.pdf", record.DocumentName)
	require.NotNil(t, record.PlagiarismResult)
	assert.Equal(t, 12.0, record.PlagiarismResult.PlagiarismScore)

	assert.Equal(t, "2026-03-15T10:30:45.123Z", record.ArchivedAt)
	assert.Equal(t, "user-1", record.UserID)
	assert.Equal(t, "workflows/user-1/doc-1_2026-03-15T10-30-45-123Z.json", record.ArchiveKey)
}

func TestResumeAcceptsVirtualHostURL(t *testing.T) {
	storage := newFakeObjectStorage()
	at := time.Date(2026, 3, 15, 10, 30, 45, 0, time.UTC)
	svc := newTestArchiveService(storage, &capturePublisher{}, at)

	_, err := svc.Archive(context.Background(), sampleState("doc-1", at), "user-1")
	require.NoError(t, err)

	url := "https://archives.s3.us-east-1.amazonaws.com/workflows/user-1/doc-1_2026-03-15T10-30-45-000Z.json"
	record, err := svc.Resume(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", record.DocumentID)
}

func TestResumeErrors(t *testing.T) {
	svc := newTestArchiveService(newFakeObjectStorage(), &capturePublisher{}, time.Now())

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"not a url", "::://bad", ErrInvalidArchiveURL},
		{"wrong bucket", "http://minio.local:9000/other-bucket/workflows/u/d.json", ErrInvalidArchiveURL},
		{"missing object", "http://minio.local:9000/archives/workflows/u/missing.json", ErrArchiveNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Resume(context.Background(), tt.url)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestListOrdersAndIsolatesFailures(t *testing.T) {
	storage := newFakeObjectStorage()
	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	svc := newTestArchiveService(storage, &capturePublisher{}, base)
	_, err := svc.Archive(context.Background(), sampleState("doc-old", base), "user-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(time.Minute) }
	_, err = svc.Archive(context.Background(), sampleState("doc-new", base.Add(time.Minute)), "user-1")
	require.NoError(t, err)

	// A snapshot belonging to another user and a corrupt object must both
	// stay out of the listing.
	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = svc.Archive(context.Background(), sampleState("doc-other", base), "user-2")
	require.NoError(t, err)
	storage.objects["workflows/user-1/corrupt.json"] = []byte("{not json")

	summaries, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, summaries, 2)
	assert.Equal(t, "doc-new", summaries[0].DocumentID)
	assert.Equal(t, "doc-old", summaries[1].DocumentID)
	assert.Equal(t, models.StatusPlagiarism, summaries[0].Status)
	assert.Contains(t, summaries[0].ArchiveURL, "http://minio.local:9000/archives/workflows/user-1/")
}

func TestDeleteRemovesSnapshot(t *testing.T) {
	storage := newFakeObjectStorage()
	at := time.Date(2026, 3, 15, 10, 30, 45, 0, time.UTC)
	svc := newTestArchiveService(storage, &capturePublisher{}, at)

	archiveURL, err := svc.Archive(context.Background(), sampleState("doc-1", at), "user-1")
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), archiveURL)
	require.NoError(t, err)
	assert.True(t, deleted)

	summaries, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, summaries)

	// Deleting an already-removed snapshot stays successful.
	deleted, err = svc.Delete(context.Background(), archiveURL)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestUnconfiguredArchiveService(t *testing.T) {
	svc := NewArchiveService(nil, &capturePublisher{}, ArchiveConfig{}, zerolog.Nop())

	assert.False(t, svc.IsConfigured())

	_, err := svc.Archive(context.Background(), sampleState("doc-1", time.Now()), "user-1")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = svc.Resume(context.Background(), "http://x/archives/workflows/u/d.json")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = svc.Delete(context.Background(), "http://x/archives/workflows/u/d.json")
	assert.ErrorIs(t, err, ErrNotConfigured)

	summaries, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, summaries)

	status := svc.Status()
	assert.False(t, status.Configured)
}

func TestArchiveServiceStatus(t *testing.T) {
	svc := newTestArchiveService(newFakeObjectStorage(), &capturePublisher{}, time.Now())

	status := svc.Status()
	assert.True(t, status.Configured)
	assert.Equal(t, "archives", status.Bucket)
	assert.Equal(t, "us-east-1", status.Region)
}
