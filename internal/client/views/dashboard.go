package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/dmitrijs2005/filedesk/internal/logging"
)

const MsgDashboardLoadFailed = "Error loading dashboard data"

type StatsBackend interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type DashboardState struct {
	Loading bool
	Stats   *models.DashboardStats
	Error   string
}

// Dashboard shows aggregate file statistics.
type Dashboard struct {
	backend StatsBackend
	log     logging.Logger

	scope scope

	mu sync.Mutex
	st DashboardState
}

func NewDashboard(backend StatsBackend, log logging.Logger) *Dashboard {
	if log == nil {
		log = logging.Discard()
	}
	return &Dashboard{backend: backend, log: log.With("view", "dashboard")}
}

func (v *Dashboard) Mount(ctx context.Context) error {
	v.scope.mount(ctx)

	v.mu.Lock()
	v.st = DashboardState{Loading: true}
	v.mu.Unlock()

	return v.Refresh(ctx)
}

func (v *Dashboard) Unmount() {
	v.scope.unmount()
}

func (v *Dashboard) State() DashboardState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.st
}

func (v *Dashboard) Refresh(ctx context.Context) error {
	opCtx, done, gen, err := v.scope.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	stats, err := v.backend.DashboardStats(opCtx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.scope.current(gen) {
		return v.scope.dropped()
	}
	v.st.Loading = false
	if err != nil {
		v.log.Warn(opCtx, "load dashboard failed", "err", err)
		v.st.Error = MsgDashboardLoadFailed
		return err
	}
	v.st.Stats = stats
	v.st.Error = ""
	return nil
}
