// Package session owns the client's authentication state.
//
// # Overview
//
// A session is either Unknown (before Start), Authenticated (credential and
// user present) or Unauthenticated (neither). Transitions are computed by the
// pure function Reduce from a Snapshot and an Event; the Controller performs
// the remote calls, feeds their results to Reduce and runs the returned
// effects (persisting or clearing the credential).
//
// Login tries the identity provider first and falls back to the backend's
// username/password login when the provider fails. When both fail, the
// provider's error is the one reported. See LoginOutcome.
//
// Logout never fails: provider and backend logout are best-effort and the
// credential is always cleared.
package session
