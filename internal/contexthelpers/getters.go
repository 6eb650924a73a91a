package contexthelpers

import "context"

// AuthenticatedUserID returns the id of the identified user or the empty
// string when the request carries no identity.
func AuthenticatedUserID(ctx context.Context) string {
	id, ok := ctx.Value(authenticatedUserIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

// IsAuthenticated reports whether the request carries an identified user.
func IsAuthenticated(ctx context.Context) bool {
	return AuthenticatedUserID(ctx) != ""
}
