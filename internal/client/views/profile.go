package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/dmitrijs2005/filedesk/internal/client/validation"
	"github.com/dmitrijs2005/filedesk/internal/logging"
	"golang.org/x/sync/errgroup"
)

const (
	MsgProfileUpdated      = "Profile updated successfully!"
	MsgProfileLoadFailed   = "Failed to load user profile"
	MsgProfileSaveFailed   = "Failed to update profile"
	MsgAddressAdded        = "Address added!"
	MsgAddressUpdated      = "Address updated!"
	MsgAddressDeleted      = "Address deleted!"
	MsgAddressSaveFailed   = "Failed to save address"
	MsgAddressDeleteFailed = "Failed to delete address"
)

// ProfileBackend is the part of the REST client the profile view uses.
type ProfileBackend interface {
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	PatchProfile(ctx context.Context, fields map[string]any) (*models.User, error)
	ListAddresses(ctx context.Context) ([]models.Address, error)
	CreateAddress(ctx context.Context, a models.Address) (*models.Address, error)
	UpdateAddress(ctx context.Context, a models.Address) (*models.Address, error)
	DeleteAddress(ctx context.Context, id int64) error
}

// UserSink receives the user record after a successful profile change.
type UserSink interface {
	UpdateUser(ctx context.Context, u models.User)
}

// ProfileState is a copy of the profile view's state.
type ProfileState struct {
	Loading   bool
	User      *models.User
	Addresses []models.Address
	Error     string
	Success   string
}

// Profile shows and edits the user's profile and addresses.
type Profile struct {
	backend ProfileBackend
	sink    UserSink
	log     logging.Logger

	scope scope

	mu sync.Mutex
	st ProfileState
}

// NewProfile builds the view. sink may be nil.
func NewProfile(backend ProfileBackend, sink UserSink, log logging.Logger) *Profile {
	if log == nil {
		log = logging.Discard()
	}
	return &Profile{backend: backend, sink: sink, log: log.With("view", "profile")}
}

// Mount starts the view and loads the profile and addresses concurrently.
func (v *Profile) Mount(ctx context.Context) error {
	v.scope.mount(ctx)

	v.mu.Lock()
	v.st = ProfileState{Loading: true}
	v.mu.Unlock()

	return v.Refresh(ctx)
}

func (v *Profile) Unmount() {
	v.scope.unmount()
}

// State returns a copy of the current state.
func (v *Profile) State() ProfileState {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.st
	if v.st.User != nil {
		u := *v.st.User
		st.User = &u
	}
	st.Addresses = append([]models.Address(nil), v.st.Addresses...)
	return st
}

// Refresh refetches the profile and the address list.
func (v *Profile) Refresh(ctx context.Context) error {
	opCtx, done, gen, err := v.scope.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	var (
		user  *models.User
		addrs []models.Address
	)
	g, gctx := errgroup.WithContext(opCtx)
	g.Go(func() error {
		var err error
		user, err = v.backend.GetProfile(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		addrs, err = v.backend.ListAddresses(gctx)
		return err
	})
	err = g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.scope.current(gen) {
		return v.scope.dropped()
	}
	v.st.Loading = false
	if err != nil {
		v.log.Warn(opCtx, "load profile failed", "err", err)
		v.st.Error = MsgProfileLoadFailed
		return err
	}
	v.st.User = user
	v.st.Addresses = addrs
	return nil
}

// UpdateProfile replaces the mutable profile fields. Email cannot change.
func (v *Profile) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	return v.saveProfile(ctx, func(ctx context.Context) (*models.User, error) {
		return v.backend.UpdateProfile(ctx, upd)
	})
}

// PatchProfile changes only the given fields.
func (v *Profile) PatchProfile(ctx context.Context, fields map[string]any) error {
	return v.saveProfile(ctx, func(ctx context.Context) (*models.User, error) {
		return v.backend.PatchProfile(ctx, fields)
	})
}

func (v *Profile) saveProfile(ctx context.Context, call func(context.Context) (*models.User, error)) error {
	v.clearMessages()

	opCtx, done, gen, err := v.scope.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	user, err := call(opCtx)
	if err != nil {
		v.log.Warn(opCtx, "update profile failed", "err", err)
		v.setMessages(MsgProfileSaveFailed, "")
		return err
	}

	if v.sink != nil {
		v.sink.UpdateUser(opCtx, *user)
	}

	v.mu.Lock()
	if v.scope.current(gen) {
		v.st.User = user
		v.st.Error = ""
		v.st.Success = MsgProfileUpdated
	}
	v.mu.Unlock()
	return nil
}

// SaveAddress creates a (ID == 0) or updates an address, then refetches
// the list. Invalid input never reaches the backend.
func (v *Profile) SaveAddress(ctx context.Context, a models.Address) error {
	v.clearMessages()

	if err := validation.Address(a); err != nil {
		v.setMessages(err.Error(), "")
		return err
	}

	opCtx, done, _, err := v.scope.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	success := MsgAddressAdded
	if a.ID == 0 {
		_, err = v.backend.CreateAddress(opCtx, a)
	} else {
		success = MsgAddressUpdated
		_, err = v.backend.UpdateAddress(opCtx, a)
	}
	if err != nil {
		v.log.Warn(opCtx, "save address failed", "id", a.ID, "err", err)
		v.setMessages(MsgAddressSaveFailed, "")
		return err
	}

	v.setMessages("", success)
	return v.refreshAddresses(ctx)
}

// DeleteAddress removes one address and refetches the list.
func (v *Profile) DeleteAddress(ctx context.Context, id int64) error {
	v.clearMessages()

	opCtx, done, _, err := v.scope.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := v.backend.DeleteAddress(opCtx, id); err != nil {
		v.log.Warn(opCtx, "delete address failed", "id", id, "err", err)
		v.setMessages(MsgAddressDeleteFailed, "")
		return err
	}

	v.setMessages("", MsgAddressDeleted)
	return v.refreshAddresses(ctx)
}

func (v *Profile) refreshAddresses(ctx context.Context) error {
	opCtx, done, gen, err := v.scope.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	addrs, err := v.backend.ListAddresses(opCtx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.scope.current(gen) {
		return v.scope.dropped()
	}
	if err != nil {
		v.log.Warn(opCtx, "list addresses failed", "err", err)
		v.st.Error = MsgProfileLoadFailed
		return err
	}
	v.st.Addresses = addrs
	return nil
}

func (v *Profile) clearMessages() {
	v.setMessages("", "")
}

func (v *Profile) setMessages(errMsg, success string) {
	if !v.scope.mounted() {
		return
	}
	v.mu.Lock()
	v.st.Error = errMsg
	v.st.Success = success
	v.mu.Unlock()
}
