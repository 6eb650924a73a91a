// Package contexthelpers defines the request-scoped values the application
// passes through the context and typed accessors for them.
package contexthelpers

type contextKey string

const (
	authenticatedUserIDKey contextKey = "authenticatedUserID"
)
