// Package models defines the records exchanged with the filedesk backend:
// users, addresses, file records and dashboard aggregates, plus the request
// and response bodies of the auth endpoints.
package models
