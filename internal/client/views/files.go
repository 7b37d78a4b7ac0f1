package views

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/filedesk/internal/client/client"
	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/dmitrijs2005/filedesk/internal/client/services"
	"github.com/dmitrijs2005/filedesk/internal/filex"
	"github.com/dmitrijs2005/filedesk/internal/logging"
)

const (
	MsgFileUploaded     = "File uploaded successfully!"
	MsgFileDeleted      = "File deleted successfully!"
	MsgFilesLoadFailed  = "Failed to load files"
	MsgNoFileSelected   = "Please select a file to upload"
	MsgUploadFailed     = "Failed to upload file: "
	MsgDeleteFailed     = "Failed to delete file"
	MsgDownloadFailed   = "Failed to download file"
	MsgFileDownloadedTo = "File saved to "
)

// ErrUnknownFile is returned when an id is not in the current list.
var ErrUnknownFile = errors.New("no such file")

// FilesState is a copy of the file manager's state.
type FilesState struct {
	Loading bool
	Files   []models.FileRecord
	Error   string
	Success string
}

// FileManager lists, uploads, downloads and deletes the user's files.
type FileManager struct {
	svc         services.FileService
	downloadDir string
	log         logging.Logger

	scope scope

	mu sync.Mutex
	st FilesState
}

func NewFileManager(svc services.FileService, downloadDir string, log logging.Logger) *FileManager {
	if log == nil {
		log = logging.Discard()
	}
	return &FileManager{svc: svc, downloadDir: downloadDir, log: log.With("view", "files")}
}

// Mount starts the view and loads the file list.
func (v *FileManager) Mount(ctx context.Context) error {
	v.scope.mount(ctx)

	v.mu.Lock()
	v.st = FilesState{Loading: true}
	v.mu.Unlock()

	return v.Refresh(ctx)
}

// Unmount cancels pending calls. Their results are discarded.
func (v *FileManager) Unmount() {
	v.scope.unmount()
}

// State returns a copy of the current state.
func (v *FileManager) State() FilesState {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.st
	st.Files = append([]models.FileRecord(nil), v.st.Files...)
	return st
}

// Refresh refetches the file list.
func (v *FileManager) Refresh(ctx context.Context) error {
	opCtx, done, gen, err := v.scope.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	files, err := v.svc.List(opCtx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.scope.current(gen) {
		return v.scope.dropped()
	}
	v.st.Loading = false
	if err != nil {
		v.log.Warn(opCtx, "list files failed", "err", err)
		v.st.Error = MsgFilesLoadFailed
		return err
	}
	v.st.Files = files
	return nil
}

// Upload stores the local file at path. An empty path fails without any
// network call.
func (v *FileManager) Upload(ctx context.Context, path string) error {
	v.clearMessages()

	if path == "" {
		v.setMessages(MsgNoFileSelected, "")
		return services.ErrNoFileSelected
	}

	opCtx, done, _, err := v.scope.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	rec, err := v.svc.Upload(opCtx, path)
	if err != nil {
		if errors.Is(err, services.ErrNoFileSelected) {
			v.setMessages(MsgNoFileSelected, "")
		} else {
			v.log.Warn(opCtx, "upload failed", "path", path, "err", err)
			v.setMessages(MsgUploadFailed+client.Message(err), "")
		}
		return err
	}

	v.log.Info(opCtx, "file uploaded", "id", rec.ID, "filename", rec.Filename)
	v.setMessages("", MsgFileUploaded)
	return v.Refresh(ctx)
}

// Delete removes the file with the given id.
func (v *FileManager) Delete(ctx context.Context, id int64) error {
	v.clearMessages()

	rec, err := v.find(id)
	if err != nil {
		v.setMessages(MsgDeleteFailed, "")
		return err
	}

	opCtx, done, _, err := v.scope.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := v.svc.Delete(opCtx, rec); err != nil {
		v.log.Warn(opCtx, "delete failed", "id", id, "err", err)
		v.setMessages(MsgDeleteFailed, "")
		return err
	}

	v.setMessages("", MsgFileDeleted)
	return v.Refresh(ctx)
}

// Download saves the file with the given id under the download directory
// and returns the written path.
func (v *FileManager) Download(ctx context.Context, id int64) (string, error) {
	v.clearMessages()

	path, err := v.download(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotMounted) {
			v.log.Warn(ctx, "download failed", "id", id, "err", err)
			v.setMessages(MsgDownloadFailed, "")
		}
		return "", err
	}

	v.setMessages("", MsgFileDownloadedTo+path)
	return path, nil
}

func (v *FileManager) download(ctx context.Context, id int64) (path string, err error) {
	rec, err := v.find(id)
	if err != nil {
		return "", err
	}

	opCtx, done, _, err := v.scope.begin(ctx)
	if err != nil {
		return "", err
	}
	defer done()

	name, err := filex.SafeName(rec.Filename)
	if err != nil {
		return "", err
	}
	dir, err := filex.EnsureDir(v.downloadDir)
	if err != nil {
		return "", err
	}
	path = filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if _, err = v.svc.Download(opCtx, rec, f); err != nil {
		return "", err
	}
	return path, nil
}

func (v *FileManager) find(id int64) (models.FileRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, f := range v.st.Files {
		if f.ID == id {
			return f, nil
		}
	}
	return models.FileRecord{}, fmt.Errorf("%w: %d", ErrUnknownFile, id)
}

func (v *FileManager) clearMessages() {
	v.setMessages("", "")
}

func (v *FileManager) setMessages(errMsg, success string) {
	if !v.scope.mounted() {
		return
	}
	v.mu.Lock()
	v.st.Error = errMsg
	v.st.Success = success
	v.mu.Unlock()
}
