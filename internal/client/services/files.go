package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/dmitrijs2005/filedesk/internal/logging"
	"github.com/dmitrijs2005/filedesk/internal/netx"
	"github.com/google/uuid"
)

// ErrNoFileSelected is returned by Upload when no file path was given.
var ErrNoFileSelected = errors.New("no file selected")

// ErrNoDownloadURL is returned when a record carries neither a backend URL
// nor an object key.
var ErrNoDownloadURL = errors.New("file has no download location")

// FileService manages the user's stored files.
//
// Contract:
//   - List: all file records of the current user.
//   - Upload: store the local file at path and return its record.
//   - Delete: remove the record (and, for direct storage, the object).
//   - Download: copy the file content into w.
type FileService interface {
	List(ctx context.Context) ([]models.FileRecord, error)
	Upload(ctx context.Context, path string) (*models.FileRecord, error)
	Delete(ctx context.Context, rec models.FileRecord) error
	Download(ctx context.Context, rec models.FileRecord, w io.Writer) (int64, error)
}

// Backend is the subset of the REST client the file services use.
type Backend interface {
	ListFiles(ctx context.Context) ([]models.FileRecord, error)
	UploadFile(ctx context.Context, filename string, size int64, content io.Reader) (*models.FileRecord, error)
	CreateFileRecord(ctx context.Context, filename string, size int64, objectKey string) (*models.FileRecord, error)
	DeleteFile(ctx context.Context, id int64) error
}

// ObjectStore is the object storage used by the direct variant.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// backendFileService sends file bytes through the backend.
type backendFileService struct {
	backend Backend
	http    *http.Client
	log     logging.Logger
}

// NewBackendFileService returns the backend-mediated variant. httpClient is
// used for downloads and must not carry the session credential.
func NewBackendFileService(backend Backend, httpClient *http.Client, log logging.Logger) FileService {
	if log == nil {
		log = logging.Discard()
	}
	return &backendFileService{backend: backend, http: httpClient, log: log}
}

func (s *backendFileService) List(ctx context.Context) ([]models.FileRecord, error) {
	return s.backend.ListFiles(ctx)
}

func (s *backendFileService) Upload(ctx context.Context, path string) (*models.FileRecord, error) {
	f, name, size, err := openSelected(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.backend.UploadFile(ctx, name, size, f)
}

func (s *backendFileService) Delete(ctx context.Context, rec models.FileRecord) error {
	return s.backend.DeleteFile(ctx, rec.ID)
}

func (s *backendFileService) Download(ctx context.Context, rec models.FileRecord, w io.Writer) (int64, error) {
	if rec.File == "" {
		return 0, ErrNoDownloadURL
	}
	return netx.Download(ctx, s.http, rec.File, w)
}

// directFileService uploads to object storage and registers records.
type directFileService struct {
	backend Backend
	store   ObjectStore
	http    *http.Client
	log     logging.Logger
}

// NewDirectFileService returns the direct-to-object-store variant.
func NewDirectFileService(backend Backend, store ObjectStore, httpClient *http.Client, log logging.Logger) FileService {
	if log == nil {
		log = logging.Discard()
	}
	return &directFileService{backend: backend, store: store, http: httpClient, log: log}
}

func (s *directFileService) List(ctx context.Context) ([]models.FileRecord, error) {
	return s.backend.ListFiles(ctx)
}

func (s *directFileService) Upload(ctx context.Context, path string) (*models.FileRecord, error) {
	f, name, size, err := openSelected(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	key := ObjectKey(name)
	if err := s.store.Upload(ctx, key, f, size, contentType(name)); err != nil {
		return nil, err
	}

	rec, err := s.backend.CreateFileRecord(ctx, name, size, key)
	if err != nil {
		// the object is orphaned without its record
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn(ctx, "failed to remove orphaned object", "key", key, "err", delErr)
		}
		return nil, err
	}
	return rec, nil
}

// Delete removes the record first; the object is removed best-effort.
func (s *directFileService) Delete(ctx context.Context, rec models.FileRecord) error {
	if err := s.backend.DeleteFile(ctx, rec.ID); err != nil {
		return err
	}
	if rec.FileURL == "" {
		return nil
	}
	if err := s.store.Delete(ctx, rec.FileURL); err != nil {
		s.log.Warn(ctx, "object delete failed", "key", rec.FileURL, "err", err)
	}
	return nil
}

func (s *directFileService) Download(ctx context.Context, rec models.FileRecord, w io.Writer) (int64, error) {
	if rec.FileURL == "" {
		if rec.File == "" {
			return 0, ErrNoDownloadURL
		}
		return netx.Download(ctx, s.http, rec.File, w)
	}

	url, err := s.store.PresignGet(ctx, rec.FileURL)
	if err != nil {
		return 0, err
	}
	return netx.Download(ctx, s.http, url, w)
}

// ObjectKey builds a collision-free storage key for filename.
func ObjectKey(filename string) string {
	return fmt.Sprintf("uploads/%s/%s", uuid.New(), filename)
}

func openSelected(path string) (*os.File, string, int64, error) {
	if strings.TrimSpace(path) == "" {
		return nil, "", 0, ErrNoFileSelected
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", 0, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, "", 0, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, "", 0, fmt.Errorf("%s is a directory", path)
	}

	return f, filepath.Base(path), st.Size(), nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
