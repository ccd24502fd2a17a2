package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/dmitrijs2005/bloodbay/internal/logging"
	"github.com/dmitrijs2005/bloodbay/internal/server/models"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bloodbay/internal/server/storage"
)

// MaxUploadFiles is the number of files accepted by a single upload.
const MaxUploadFiles = 5

// Upload is one file of a multipart upload.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FileService attaches files to cases. Blobs go to the blob store and the
// links to the files repository.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	log         logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore, log logging.Logger) *FileService {
	return &FileService{db: db, repomanager: m, blobs: blobs, log: log}
}

// Upload stores files and links them to case linkedToID. Only the case
// reporter may attach files. Files are processed in order and a failure
// leaves the earlier ones in place.
func (s *FileService) Upload(ctx context.Context, requesterID, linkedToID string, files []Upload) ([]*models.File, error) {
	if linkedToID == "" || len(files) == 0 {
		return nil, common.NewError(common.ErrValidation, common.MsgNoFilesOrLinks)
	}
	if len(files) > MaxUploadFiles {
		return nil, common.NewError(common.ErrValidation, fmt.Sprintf(common.MsgTooManyFiles, MaxUploadFiles))
	}

	c, err := s.repomanager.Cases(s.db).GetByID(ctx, linkedToID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, common.MsgFileCaseNotFound)
		}
		return nil, fmt.Errorf("error searching case: %w", err)
	}
	if c.ReportedByID != requesterID {
		return nil, common.NewError(common.ErrAuthorization, common.MsgOnlyReporterCanLink)
	}

	repo := s.repomanager.Files(s.db)
	result := make([]*models.File, 0, len(files))

	for _, f := range files {
		key := storage.NewKey(c.ID)
		if err := s.put(ctx, key, f); err != nil {
			return nil, fmt.Errorf("error storing file %q: %w", f.Filename, err)
		}

		link, err := repo.Create(ctx, &models.File{
			UploadedByID: requesterID,
			OriginalName: f.Filename,
			Name:         key,
			LinkedToID:   c.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("error linking file %q: %w", f.Filename, err)
		}
		result = append(result, link)
	}

	s.log.Info(ctx, "files uploaded", "case_id", c.ID, "count", len(result))
	return result, nil
}

// ListForCase returns metadata with download links for every file of
// caseID. Links whose blob is gone are skipped.
func (s *FileService) ListForCase(ctx context.Context, caseID string) ([]*models.FileMetadata, error) {
	if caseID == "" {
		return nil, common.NewError(common.ErrValidation, common.MsgCaseIDRequired)
	}

	if _, err := s.repomanager.Cases(s.db).GetByID(ctx, caseID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, common.MsgCaseNotFound)
		}
		return nil, fmt.Errorf("error searching case: %w", err)
	}

	links, err := s.repomanager.Files(s.db).ListByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}

	result := make([]*models.FileMetadata, 0, len(links))
	for _, link := range links {
		meta, err := s.blobs.Stat(ctx, link.Name)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				s.log.Warn(ctx, "blob missing for file link", "file_id", link.ID, "name", link.Name)
				continue
			}
			return nil, fmt.Errorf("error reading file metadata: %w", err)
		}
		meta.OriginalName = link.OriginalName
		result = append(result, meta)
	}
	return result, nil
}

func (s *FileService) put(ctx context.Context, key string, f Upload) error {
	body, err := f.Open()
	if err != nil {
		return err
	}
	defer body.Close()

	return s.blobs.Put(ctx, key, body, f.Size, f.ContentType)
}
