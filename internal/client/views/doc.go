// Package views holds the view models behind the file manager, profile and
// dashboard screens.
//
// A view is mounted before use and unmounted when the user leaves it. Every
// call made while mounted runs under a context that Unmount cancels; results
// that arrive after Unmount, or after a newer fetch started, are dropped.
// Mutations clear the previous messages, call the backend and refetch the
// whole collection on success.
package views
