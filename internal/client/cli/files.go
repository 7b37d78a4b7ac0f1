package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/filedesk/internal/client/router"
)

// Files lists the user's files.
func (a *App) Files(ctx context.Context) error {
	if err := a.show(ctx, router.Files, a.files); err != nil {
		return err
	}
	renderFiles(a.out, a.files.State())
	return nil
}

// Upload sends the local file at path and shows the refreshed list.
func (a *App) Upload(ctx context.Context, path string) error {
	if err := a.enter(ctx, router.Files, a.files); err != nil {
		return err
	}
	err := a.files.Upload(ctx, path)
	renderFiles(a.out, a.files.State())
	return err
}

// Download saves the file with the given id to the download directory.
func (a *App) Download(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if err := a.enter(ctx, router.Files, a.files); err != nil {
		return err
	}
	_, err = a.files.Download(ctx, n)
	st := a.files.State()
	renderMessages(a.out, st.Error, st.Success)
	return err
}

// DeleteFile deletes the file with the given id and shows the refreshed list.
func (a *App) DeleteFile(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if err := a.enter(ctx, router.Files, a.files); err != nil {
		return err
	}
	err = a.files.Delete(ctx, n)
	renderFiles(a.out, a.files.State())
	return err
}

func parseID(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return n, nil
}
