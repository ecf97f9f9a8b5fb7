package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarproof/verification-service/internal/models"
	"github.com/scholarproof/verification-service/internal/repository"
	"github.com/scholarproof/verification-service/internal/service/integration"
)

const (
	archiveKeyPrefix = "workflows"
	maxListKeys      = 100

	// JS Date.toISOString layout; the stored key format predates this
	// service and must stay byte-compatible with existing archives.
	archiveTimestampLayout = "2006-01-02T15:04:05.000Z"
)

// ArchiveService persists immutable, timestamped snapshots of workflow
// state in the object store and restores them on demand.
type ArchiveService interface {
	Archive(ctx context.Context, state *models.WorkflowState, userID string) (string, error)
	Resume(ctx context.Context, archiveURL string) (*models.ArchiveRecord, error)
	List(ctx context.Context, userID string) ([]models.ArchiveSummary, error)
	Delete(ctx context.Context, archiveURL string) (bool, error)
	IsConfigured() bool
	Status() models.ArchiveServiceStatus
}

type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type archiveService struct {
	storage   repository.ObjectStorage
	publisher integration.EventPublisher
	config    ArchiveConfig
	logger    zerolog.Logger
	now       func() time.Time
}

func NewArchiveService(
	storage repository.ObjectStorage,
	publisher integration.EventPublisher,
	config ArchiveConfig,
	logger zerolog.Logger,
) ArchiveService {
	if !configured(config) {
		logger.Warn().Msg("Archive storage not configured, archiving disabled")
	}

	return &archiveService{
		storage:   storage,
		publisher: publisher,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

func configured(cfg ArchiveConfig) bool {
	return cfg.AccessKey != "" && cfg.SecretKey != "" && cfg.Region != "" && cfg.Bucket != ""
}

func (s *archiveService) IsConfigured() bool {
	return configured(s.config) && s.storage != nil
}

func (s *archiveService) Status() models.ArchiveServiceStatus {
	return models.ArchiveServiceStatus{
		Configured: s.IsConfigured(),
		Bucket:     s.config.Bucket,
		Region:     s.config.Region,
	}
}

// Archive writes the state plus archive-only fields under a fresh
// timestamped key. Two calls for the same document within the same
// millisecond can collide on key; this is an accepted limitation of the
// key scheme, not defended against.
func (s *archiveService) Archive(ctx context.Context, state *models.WorkflowState, userID string) (string, error) {
	if !s.IsConfigured() {
		return "", ErrNotConfigured
	}
	if userID == "" {
		userID = "anonymous"
	}

	archivedAt := s.now().UTC()
	timestamp := strings.NewReplacer(":", "-", ".", "-").Replace(archivedAt.Format(archiveTimestampLayout))
	archiveKey := fmt.Sprintf("%s/%s/%s_%s.json", archiveKeyPrefix, userID, state.DocumentID, timestamp)

	record := models.ArchiveRecord{
		WorkflowState: *state,
		ArchivedAt:    archivedAt.Format(archiveTimestampLayout),
		UserID:        userID,
		ArchiveKey:    archiveKey,
	}

	body, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize workflow snapshot: %w", err)
	}

	metadata := map[string]string{
		"document-id":   state.DocumentID,
		"document-name": state.DocumentName,
		"user-id":       userID,
		"archived-at":   record.ArchivedAt,
	}

	if err := s.storage.PutObject(ctx, archiveKey, body, metadata); err != nil {
		return "", fmt.Errorf("failed to archive workflow: %w", err)
	}

	archiveURL := s.archiveURL(archiveKey)

	s.logger.Info().
		Str("user_id", userID).
		Str("document_id", state.DocumentID).
		Str("archive_key", archiveKey).
		Msg("Workflow archived")

	event := models.WorkflowArchivedEvent{
		DocumentID: state.DocumentID,
		UserID:     userID,
		ArchiveKey: archiveKey,
		ArchiveURL: archiveURL,
		ArchivedAt: archivedAt,
	}
	if err := s.publisher.Publish(ctx, "workflow.archived", event); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish workflow archived event")
	}

	return archiveURL, nil
}

// Resume fetches and parses a snapshot, returning it verbatim including the
// archive-only fields. Unknown extra fields in old snapshots are ignored.
func (s *archiveService) Resume(ctx context.Context, archiveURL string) (*models.ArchiveRecord, error) {
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	key, err := s.extractKey(archiveURL)
	if err != nil {
		return nil, err
	}

	body, err := s.storage.GetObject(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrArchiveNotFound
		}
		return nil, fmt.Errorf("failed to resume workflow: %w", err)
	}

	var record models.ArchiveRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("failed to parse workflow snapshot: %w", err)
	}

	s.logger.Info().
		Str("document_id", record.DocumentID).
		Str("archive_key", key).
		Msg("Workflow resumed")

	return &record, nil
}

// List enumerates the user's snapshots and derives display summaries. Each
// object is fetched and parsed independently; one bad object is skipped,
// never aborting the whole listing.
func (s *archiveService) List(ctx context.Context, userID string) ([]models.ArchiveSummary, error) {
	if !s.IsConfigured() {
		s.logger.Warn().Msg("Archive storage not configured, returning empty list")
		return []models.ArchiveSummary{}, nil
	}
	if userID == "" {
		userID = "anonymous"
	}

	prefix := fmt.Sprintf("%s/%s/", archiveKeyPrefix, userID)
	keys, err := s.storage.ListKeys(ctx, prefix, maxListKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}

	summaries := make([]*models.ArchiveSummary, len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(idx int, objectKey string) {
			defer wg.Done()

			body, err := s.storage.GetObject(ctx, objectKey)
			if err != nil {
				s.logger.Warn().Err(err).Str("key", objectKey).Msg("Failed to fetch archive, skipping")
				return
			}

			var record models.ArchiveRecord
			if err := json.Unmarshal(body, &record); err != nil {
				s.logger.Warn().Err(err).Str("key", objectKey).Msg("Failed to parse archive, skipping")
				return
			}

			summaries[idx] = &models.ArchiveSummary{
				DocumentID:   record.DocumentID,
				DocumentName: record.DocumentName,
				ArchiveURL:   s.archiveURL(objectKey),
				CreatedAt:    record.Metadata.CreatedAt,
				UpdatedAt:    record.Metadata.UpdatedAt,
				Status:       models.DeriveStatus(&record.WorkflowState),
			}
		}(i, key)
	}
	wg.Wait()

	result := make([]models.ArchiveSummary, 0, len(summaries))
	for _, summary := range summaries {
		if summary != nil {
			result = append(result, *summary)
		}
	}

	// Most recent snapshot first; it is the canonical one for display.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	return result, nil
}

// Delete removes the snapshot behind the URL. The underlying store treats
// removal of a missing key as success, so delete is idempotent.
func (s *archiveService) Delete(ctx context.Context, archiveURL string) (bool, error) {
	if !s.IsConfigured() {
		return false, ErrNotConfigured
	}

	key, err := s.extractKey(archiveURL)
	if err != nil {
		return false, err
	}

	if err := s.storage.RemoveObject(ctx, key); err != nil {
		return false, fmt.Errorf("failed to delete archive: %w", err)
	}

	s.logger.Info().Str("archive_key", key).Msg("Archive deleted")
	return true, nil
}

// archiveURL builds a path-style URL against the configured endpoint, or a
// virtual-host S3 URL when no endpoint override is set.
func (s *archiveService) archiveURL(key string) string {
	if s.config.Endpoint != "" {
		scheme := "http"
		if s.config.UseSSL {
			scheme = "https"
		}
		return fmt.Sprintf("%s://%s/%s/%s", scheme, s.config.Endpoint, s.config.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.Bucket, s.config.Region, key)
}

// extractKey accepts both URL styles produced over the lifetime of the
// snapshot schema: path-style ({endpoint}/{bucket}/{key}) and virtual-host
// ({bucket}.s3.../{key}).
func (s *archiveService) extractKey(archiveURL string) (string, error) {
	parsed, err := url.Parse(archiveURL)
	if err != nil || parsed.Host == "" {
		return "", ErrInvalidArchiveURL
	}

	path := strings.TrimPrefix(parsed.Path, "/")
	if strings.HasPrefix(parsed.Host, s.config.Bucket+".") {
		if path == "" {
			return "", ErrInvalidArchiveURL
		}
		return path, nil
	}

	bucketPrefix := s.config.Bucket + "/"
	if strings.HasPrefix(path, bucketPrefix) && len(path) > len(bucketPrefix) {
		return strings.TrimPrefix(path, bucketPrefix), nil
	}

	return "", ErrInvalidArchiveURL
}
