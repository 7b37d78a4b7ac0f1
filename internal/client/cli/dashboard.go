package cli

import (
	"context"

	"github.com/dmitrijs2005/filedesk/internal/client/router"
)

// Dashboard shows file statistics.
func (a *App) Dashboard(ctx context.Context) error {
	if err := a.show(ctx, router.Dashboard, a.dash); err != nil {
		return err
	}
	renderDashboard(a.out, a.dash.State())
	return nil
}
