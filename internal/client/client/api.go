package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/filedesk/internal/client/models"
)

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/profile/", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodPut, "/profile/", upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// PatchProfile sends only the given fields. The backend ignores "email".
func (c *HTTPClient) PatchProfile(ctx context.Context, fields map[string]any) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodPatch, "/profile/", fields, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/logout/", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	var resp models.RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/register/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	var files []models.FileRecord
	if err := c.doJSON(ctx, http.MethodGet, "/files/", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// UploadFile streams content to POST /files/ as multipart form data.
func (c *HTTPClient) UploadFile(ctx context.Context, filename string, size int64, content io.Reader) (*models.FileRecord, error) {
	return c.postFileForm(ctx, filename, size, "", content)
}

// CreateFileRecord registers a file already stored under objectKey.
func (c *HTTPClient) CreateFileRecord(ctx context.Context, filename string, size int64, objectKey string) (*models.FileRecord, error) {
	return c.postFileForm(ctx, filename, size, objectKey, nil)
}

func (c *HTTPClient) postFileForm(ctx context.Context, filename string, size int64, objectKey string, content io.Reader) (*models.FileRecord, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeFileForm(mw, filename, size, objectKey, content))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/files/"), pr)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var rec models.FileRecord
	if err := c.do(req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func writeFileForm(mw *multipart.Writer, filename string, size int64, objectKey string, content io.Reader) error {
	if content != nil {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, content); err != nil {
			return fmt.Errorf("copy file content: %w", err)
		}
	}
	if err := mw.WriteField("filename", filename); err != nil {
		return err
	}
	if err := mw.WriteField("file_size", strconv.FormatInt(size, 10)); err != nil {
		return err
	}
	if objectKey != "" {
		if err := mw.WriteField("file_url", objectKey); err != nil {
			return err
		}
	}
	return mw.Close()
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/files/%d/", id), nil, nil)
}

func (c *HTTPClient) ListAddresses(ctx context.Context) ([]models.Address, error) {
	var list []models.Address
	if err := c.doJSON(ctx, http.MethodGet, "/addresses/", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) CreateAddress(ctx context.Context, a models.Address) (*models.Address, error) {
	var out models.Address
	if err := c.doJSON(ctx, http.MethodPost, "/addresses/", a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateAddress(ctx context.Context, a models.Address) (*models.Address, error) {
	var out models.Address
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/addresses/%d/", a.ID), a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteAddress(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/addresses/%d/", id), nil, nil)
}

func (c *HTTPClient) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var s models.DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/dashboard-stats/", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
