// Package client is the HTTP wrapper around the filedesk REST backend.
//
// # Overview
//
// Every request goes through authTransport, which:
//  1. Adds "Authorization: <prefix> <credential>" when a credential is
//     persisted (see Credentials).
//  2. On a 401 or 403 response clears the persisted credential and invokes the
//     hook registered with OnUnauthorized, unless the caller reports that the
//     current view is an authentication view (login or registration).
//
// Nothing is retried. A failed call surfaces as an error to its caller.
//
// # Error Handling
//
// Network failures wrap ErrUnavailable; 401/403 wrap ErrUnauthorized; any
// other non-2xx status is a *BackendError. Use errors.Is / errors.As.
//
// See Also
//
//   - Interface: Client
//   - HTTP impl: HTTPClient
//   - Test fake: package clienttest
package client
