package views

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/filedesk/internal/client/client"
	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/dmitrijs2005/filedesk/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFiles struct {
	mu        sync.Mutex
	files     []models.FileRecord
	listErr   error
	uploadErr error
	content   string

	// block, when set, makes List wait for ctx cancellation after
	// signalling on started.
	block   bool
	started chan struct{}
	calls   []string
}

func (f *fakeFiles) record(c string) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeFiles) List(ctx context.Context) ([]models.FileRecord, error) {
	f.record("list")
	if f.block {
		close(f.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.files, f.listErr
}

func (f *fakeFiles) Upload(ctx context.Context, path string) (*models.FileRecord, error) {
	f.record("upload")
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &models.FileRecord{ID: 9, Filename: filepath.Base(path)}, nil
}

func (f *fakeFiles) Delete(ctx context.Context, rec models.FileRecord) error {
	f.record("delete")
	return nil
}

func (f *fakeFiles) Download(ctx context.Context, rec models.FileRecord, w io.Writer) (int64, error) {
	f.record("download")
	n, err := io.Copy(w, strings.NewReader(f.content))
	return n, err
}

func TestFileManager_MountLoadsList(t *testing.T) {
	srv, c := newBackend(t)
	srv.SetFiles([]models.FileRecord{{ID: 1, Filename: "a.pdf"}, {ID: 2, Filename: "b.txt"}})

	v := NewFileManager(services.NewBackendFileService(c, nil, nil), t.TempDir(), nil)
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	st := v.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	require.Len(t, st.Files, 2)
	assert.Equal(t, "PDF", st.Files[0].Type())
}

func TestFileManager_LoadFailure(t *testing.T) {
	srv, c := newBackend(t)
	srv.FailWith(http.MethodGet, "/api/files/", http.StatusInternalServerError)

	v := NewFileManager(services.NewBackendFileService(c, nil, nil), t.TempDir(), nil)
	require.Error(t, v.Mount(context.Background()))

	st := v.State()
	assert.False(t, st.Loading)
	assert.Equal(t, MsgFilesLoadFailed, st.Error)
}

func TestFileManager_UploadWithoutFile_NoNetworkCall(t *testing.T) {
	srv, c := newBackend(t)
	v := NewFileManager(services.NewBackendFileService(c, nil, nil), t.TempDir(), nil)
	require.NoError(t, v.Mount(context.Background()))
	before := len(srv.Requests())

	err := v.Upload(context.Background(), "")

	require.ErrorIs(t, err, services.ErrNoFileSelected)
	assert.Equal(t, MsgNoFileSelected, v.State().Error)
	assert.Len(t, srv.Requests(), before)
}

func TestFileManager_UploadAndDelete(t *testing.T) {
	srv, c := newBackend(t)
	v := NewFileManager(services.NewBackendFileService(c, nil, nil), t.TempDir(), nil)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))

	p := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(p, []byte("%PDF"), 0o600))

	require.NoError(t, v.Upload(ctx, p))
	st := v.State()
	assert.Equal(t, MsgFileUploaded, st.Success)
	require.Len(t, st.Files, 1)
	assert.Equal(t, "report.pdf", st.Files[0].Filename)
	assert.Equal(t, 2, srv.RequestCount(http.MethodGet, "/api/files/"))

	require.NoError(t, v.Delete(ctx, st.Files[0].ID))
	st = v.State()
	assert.Equal(t, MsgFileDeleted, st.Success)
	assert.Empty(t, st.Error)
	assert.Empty(t, st.Files)
}

func TestFileManager_UploadFailureShowsDetail(t *testing.T) {
	svc := &fakeFiles{uploadErr: &client.BackendError{StatusCode: http.StatusRequestEntityTooLarge, Detail: "File too large"}}
	v := NewFileManager(svc, t.TempDir(), nil)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))

	require.Error(t, v.Upload(ctx, "/some/file.bin"))
	st := v.State()
	assert.Equal(t, MsgUploadFailed+"File too large", st.Error)
	assert.Empty(t, st.Success)
	assert.Equal(t, []string{"list", "upload"}, svc.calls)
}

func TestFileManager_DeleteFailure(t *testing.T) {
	srv, c := newBackend(t)
	srv.SetFiles([]models.FileRecord{{ID: 1, Filename: "a.pdf"}})
	srv.FailWith(http.MethodDelete, "/api/files/1/", http.StatusInternalServerError)
	v := NewFileManager(services.NewBackendFileService(c, nil, nil), t.TempDir(), nil)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))

	require.Error(t, v.Delete(ctx, 1))
	assert.Equal(t, MsgDeleteFailed, v.State().Error)
	assert.Len(t, v.State().Files, 1)

	require.ErrorIs(t, v.Delete(ctx, 42), ErrUnknownFile)
}

func TestFileManager_Download(t *testing.T) {
	dir := t.TempDir()
	svc := &fakeFiles{files: []models.FileRecord{{ID: 3, Filename: "../notes.txt"}}, content: "hello"}
	v := NewFileManager(svc, dir, nil)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))

	path, err := v.Download(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.txt"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
	assert.Equal(t, MsgFileDownloadedTo+path, v.State().Success)
}

func TestFileManager_UnmountCancelsAndDiscards(t *testing.T) {
	svc := &fakeFiles{block: true, started: make(chan struct{})}
	v := NewFileManager(svc, t.TempDir(), nil)

	errCh := make(chan error, 1)
	go func() { errCh <- v.Mount(context.Background()) }()

	<-svc.started
	v.Unmount()

	err := <-errCh
	require.ErrorIs(t, err, ErrNotMounted)

	// the cancelled fetch did not touch the state
	st := v.State()
	assert.True(t, st.Loading)
	assert.Empty(t, st.Error)

	assert.ErrorIs(t, v.Refresh(context.Background()), ErrNotMounted)
	assert.ErrorIs(t, v.Upload(context.Background(), "/tmp/x"), ErrNotMounted)
}

func TestFileManager_CallerContextCancels(t *testing.T) {
	svc := &fakeFiles{listErr: errors.New("boom")}
	v := NewFileManager(svc, t.TempDir(), nil)
	require.Error(t, v.Mount(context.Background()))

	svc.listErr = nil
	svc.block = true
	svc.started = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- v.Refresh(ctx) }()

	<-svc.started
	cancel()

	require.ErrorIs(t, <-errCh, context.Canceled)
	assert.Equal(t, MsgFilesLoadFailed, v.State().Error)
}
