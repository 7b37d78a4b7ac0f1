package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/filedesk/internal/client/models"
)

// Client is the backend REST contract used by the session controller, the
// file services and the views.
type Client interface {
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	PatchProfile(ctx context.Context, fields map[string]any) (*models.User, error)

	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)

	ListFiles(ctx context.Context) ([]models.FileRecord, error)
	UploadFile(ctx context.Context, filename string, size int64, content io.Reader) (*models.FileRecord, error)
	CreateFileRecord(ctx context.Context, filename string, size int64, objectKey string) (*models.FileRecord, error)
	DeleteFile(ctx context.Context, id int64) error

	ListAddresses(ctx context.Context) ([]models.Address, error)
	CreateAddress(ctx context.Context, a models.Address) (*models.Address, error)
	UpdateAddress(ctx context.Context, a models.Address) (*models.Address, error)
	DeleteAddress(ctx context.Context, id int64) error

	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

// Credentials is the persisted session credential as seen by the transport.
// Load returns common.ErrNoCredential when nothing is stored.
type Credentials interface {
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
