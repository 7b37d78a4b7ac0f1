// Package router gates access to views based on the session state.
package router

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/filedesk/internal/client/session"
	"github.com/dmitrijs2005/filedesk/internal/logging"
)

// View is a navigable location.
type View string

const (
	Root      View = "/"
	Login     View = "/login"
	Register  View = "/register"
	Dashboard View = "/dashboard"
	Files     View = "/files"
	Profile   View = "/profile"
)

// Protected reports whether v requires an authenticated session.
func Protected(v View) bool {
	switch v {
	case Dashboard, Files, Profile:
		return true
	}
	return false
}

// IsAuthView reports whether v is the login or registration view.
func IsAuthView(v View) bool {
	return v == Login || v == Register
}

// Resolve returns the view to render when requested is asked for in state s.
// Unknown views resolve like Root. Resolve is pure and evaluated on every
// navigation.
func Resolve(s session.Snapshot, requested View) View {
	authed := s.Authenticated()

	switch {
	case Protected(requested):
		if authed {
			return requested
		}
		return Login
	case IsAuthView(requested):
		if authed {
			return Dashboard
		}
		return requested
	default:
		if authed {
			return Dashboard
		}
		return Login
	}
}

// Session is what the Navigator needs from the session controller.
type Session interface {
	Snapshot() session.Snapshot
	TakeNotice(ctx context.Context) string
}

// Result describes a completed navigation.
type Result struct {
	View       View
	Redirected bool
	// Notice is a one-shot message set when a protected view redirected to
	// the login view.
	Notice string
}

// Navigator tracks the current view. Safe for concurrent use.
type Navigator struct {
	sess Session
	log  logging.Logger

	mu      sync.RWMutex
	current View
}

func NewNavigator(sess Session, log logging.Logger) *Navigator {
	if log == nil {
		log = logging.Discard()
	}
	return &Navigator{sess: sess, log: log, current: Root}
}

// Current returns the view last navigated to.
func (n *Navigator) Current() View {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// IsAuthView reports whether the current view is the login or registration
// view. It is passed to the HTTP client to suppress credential clearing.
func (n *Navigator) IsAuthView() bool {
	return IsAuthView(n.Current())
}

// Go navigates to v, applying the guard.
func (n *Navigator) Go(ctx context.Context, v View) Result {
	target := Resolve(n.sess.Snapshot(), v)

	res := Result{View: target, Redirected: target != v}
	if res.Redirected && Protected(v) && target == Login {
		res.Notice = n.sess.TakeNotice(ctx)
	}

	n.mu.Lock()
	n.current = target
	n.mu.Unlock()

	if res.Redirected {
		n.log.Debug(ctx, "navigation redirected", "requested", string(v), "view", string(target))
	}
	return res
}

// Refresh re-applies the guard to the current view, e.g. after the session
// changed underneath it.
func (n *Navigator) Refresh(ctx context.Context) Result {
	return n.Go(ctx, n.Current())
}
