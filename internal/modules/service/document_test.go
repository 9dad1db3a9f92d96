package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/arabshield/portal/internal/config"
	"github.com/arabshield/portal/internal/modules/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newDocumentFixtures(owner *model.User) (*MockDocumentRepo, *MockProjectRepo, *MockBlobStore, *MockBus, DocumentService, *model.Project) {
	documents := &MockDocumentRepo{}
	projects := &MockProjectRepo{}
	blobs := &MockBlobStore{}
	bus := &MockBus{}
	svc := NewDocumentService(documents, projects, blobs, bus, &config.Config{}, zap.NewNop())
	project := &model.Project{ID: uuid.New(), OwnerID: owner.ID}
	return documents, projects, blobs, bus, svc, project
}

func TestDocumentService_Upload_SizeBoundary(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleClient}

	tests := []struct {
		name    string
		size    int64
		wantErr error
	}{
		{name: "exactly the cap is accepted", size: config.DefaultMaxDocumentBytes},
		{name: "one byte over is rejected", size: config.DefaultMaxDocumentBytes + 1, wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			documents, projects, blobs, bus, svc, project := newDocumentFixtures(owner)

			projects.On("Get", mock.Anything, project.ID).Return(project, nil)
			if tt.wantErr == nil {
				blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
				documents.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
					return d.FileSize == tt.size && d.UploadedBy == owner.ID
				})).Return(nil)
				bus.On("Publish", mock.Anything, mock.Anything).Return(nil)
			}

			content := bytes.Repeat([]byte{0x41}, int(tt.size))
			_, err := svc.Upload(context.Background(), owner, project.ID, "report.txt", content)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				blobs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				documents.AssertExpectations(t)
			}
		})
	}
}

func TestDocumentService_Upload_CompensatesBlobOnRowFailure(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleClient}
	documents, projects, blobs, _, svc, project := newDocumentFixtures(owner)

	projects.On("Get", mock.Anything, project.ID).Return(project, nil)
	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	documents.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	// Blob must be removed again so storage holds no unreferenced object.
	blobs.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Upload(context.Background(), owner, project.ID, "a.pdf", []byte("%PDF-1.4"))
	assert.Error(t, err)
	blobs.AssertExpectations(t)
}

func TestDocumentService_Delete_SurfacesOrphanedBlob(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleClient}
	documents, projects, blobs, bus, svc, project := newDocumentFixtures(owner)

	doc := &model.Document{
		ID:         uuid.New(),
		ProjectID:  project.ID,
		UploadedBy: owner.ID,
		BlobKey:    "documents/x/y.pdf",
	}

	projects.On("Get", mock.Anything, project.ID).Return(project, nil)
	documents.On("Get", mock.Anything, doc.ID).Return(doc, nil)
	documents.On("Delete", mock.Anything, doc.ID).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)
	blobs.On("Delete", mock.Anything, doc.BlobKey).Return(errors.New("s3 unavailable"))

	err := svc.Delete(context.Background(), owner, doc.ID)
	assert.ErrorIs(t, err, ErrBlobOrphaned)
	documents.AssertExpectations(t)
}

func TestDocumentService_UploadMany_PartialFailure(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleClient}
	documents, projects, blobs, bus, svc, project := newDocumentFixtures(owner)

	projects.On("Get", mock.Anything, project.ID).Return(project, nil)
	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	oversized := bytes.Repeat([]byte{0x42}, int(config.DefaultMaxDocumentBytes)+1)
	documents.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
		return d.Filename == "ok.txt"
	})).Return(nil)

	results, err := svc.UploadMany(context.Background(), owner, project.ID, []UploadFile{
		{Filename: "ok.txt", Content: []byte("hello")},
		{Filename: "big.bin", Content: oversized},
	})
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.NotNil(t, results[0].Document)
	assert.Empty(t, results[0].Error)
	assert.Nil(t, results[1].Document)
	assert.NotEmpty(t, results[1].Error)
}
