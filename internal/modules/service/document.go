package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/arabshield/portal/internal/config"
	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/pkg/roles"
	"github.com/arabshield/portal/internal/pkg/utils/mime"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	presignTTL        = 15 * time.Minute
	maxParallelUpload = 4
)

// BlobStore is the slice of the S3 layer documents need.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expire time.Duration) (string, error)
}

type DocumentService interface {
	Upload(ctx context.Context, principal *model.User, projectID uuid.UUID, filename string, content []byte) (*model.Document, error)
	// UploadMany stores a batch concurrently. Each file succeeds or fails on
	// its own; failures come back per filename instead of aborting the batch.
	UploadMany(ctx context.Context, principal *model.User, projectID uuid.UUID, files []UploadFile) ([]UploadResult, error)
	// List returns the project's documents with presigned download URLs.
	List(ctx context.Context, principal *model.User, projectID uuid.UUID) ([]DocumentOutput, error)
	// Delete removes the metadata row first, then the blob. When blob
	// cleanup fails the row stays gone and ErrBlobOrphaned is returned so
	// the caller knows storage still holds the object.
	Delete(ctx context.Context, principal *model.User, id uuid.UUID) error
}

type documentService struct {
	documents repo.DocumentRepo
	projects  repo.ProjectRepo
	blobs     BlobStore
	bus       realtime.Bus
	cfg       *config.Config
	log       *zap.Logger
}

func NewDocumentService(
	documents repo.DocumentRepo,
	projects repo.ProjectRepo,
	blobs BlobStore,
	bus realtime.Bus,
	cfg *config.Config,
	log *zap.Logger,
) DocumentService {
	return &documentService{
		documents: documents,
		projects:  projects,
		blobs:     blobs,
		bus:       bus,
		cfg:       cfg,
		log:       log,
	}
}

type UploadFile struct {
	Filename string
	Content  []byte
}

type UploadResult struct {
	Filename string          `json:"filename"`
	Document *model.Document `json:"document,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type DocumentOutput struct {
	model.Document
	DownloadURL string `json:"download_url,omitempty"`
}

func (s *documentService) Upload(ctx context.Context, principal *model.User, projectID uuid.UUID, filename string, content []byte) (*model.Document, error) {
	if _, err := loadProjectFor(ctx, s.projects, principal, projectID); err != nil {
		return nil, err
	}
	d, err := s.store(ctx, principal, projectID, filename, content)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, projectID)
	return d, nil
}

func (s *documentService) UploadMany(ctx context.Context, principal *model.User, projectID uuid.UUID, files []UploadFile) ([]UploadResult, error) {
	if _, err := loadProjectFor(ctx, s.projects, principal, projectID); err != nil {
		return nil, err
	}

	results := make([]UploadResult, len(files))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUpload)
	for i, f := range files {
		g.Go(func() error {
			d, err := s.store(gctx, principal, projectID, f.Filename, f.Content)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[i] = UploadResult{Filename: f.Filename, Error: err.Error()}
			} else {
				results[i] = UploadResult{Filename: f.Filename, Document: d}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.Document != nil {
			s.publish(ctx, projectID)
			break
		}
	}
	return results, nil
}

func (s *documentService) List(ctx context.Context, principal *model.User, projectID uuid.UUID) ([]DocumentOutput, error) {
	if _, err := loadProjectFor(ctx, s.projects, principal, projectID); err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	out := make([]DocumentOutput, 0, len(docs))
	for _, d := range docs {
		url, err := s.blobs.PresignGet(ctx, d.BlobKey, presignTTL)
		if err != nil {
			// A broken presign should not hide the listing.
			s.log.Warn("failed to presign document URL",
				zap.Error(err), zap.String("document_id", d.ID.String()))
		}
		out = append(out, DocumentOutput{Document: d, DownloadURL: url})
	}
	return out, nil
}

func (s *documentService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	d, err := s.documents.Get(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	p, err := loadProjectFor(ctx, s.projects, principal, d.ProjectID)
	if err != nil {
		return err
	}
	if d.UploadedBy != principal.ID && p.OwnerID != principal.ID && !roles.IsAdminRole(principal.Role) {
		return ErrForbidden
	}

	if err := s.documents.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, d.ProjectID)

	if err := s.blobs.Delete(ctx, d.BlobKey); err != nil {
		s.log.Error("document blob orphaned after metadata delete",
			zap.Error(err),
			zap.String("document_id", d.ID.String()),
			zap.String("blob_key", d.BlobKey))
		return ErrBlobOrphaned
	}
	return nil
}

// store uploads the blob first and records metadata second; a failed row
// insert deletes the blob again so storage holds no unreferenced objects.
func (s *documentService) store(ctx context.Context, principal *model.User, projectID uuid.UUID, filename string, content []byte) (*model.Document, error) {
	size := int64(len(content))
	// The cap is inclusive: a file of exactly the limit is accepted.
	if size > s.cfg.MaxDocumentBytes() {
		return nil, ErrFileTooLarge
	}

	contentType := mime.DetectMimeType(content, filename)
	key := fmt.Sprintf("documents/%s/%s%s", projectID, uuid.NewString(), filepath.Ext(filename))

	if err := s.blobs.Upload(ctx, key, contentType, bytes.NewReader(content)); err != nil {
		return nil, err
	}

	d := &model.Document{
		ProjectID:  projectID,
		UploadedBy: principal.ID,
		Filename:   filename,
		FileSize:   size,
		FileType:   contentType,
		BlobKey:    key,
	}
	if err := s.documents.Create(ctx, d); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.Error("failed to clean up blob after metadata insert failure",
				zap.Error(delErr), zap.String("blob_key", key))
		}
		return nil, err
	}
	return d, nil
}

func (s *documentService) publish(ctx context.Context, projectID uuid.UUID) {
	err := s.bus.Publish(ctx, realtime.Event{
		Entity:   realtime.EntityDocuments,
		ScopeKey: projectID.String(),
	})
	if err != nil {
		s.log.Warn("failed to publish documents change event", zap.Error(err))
	}
}
