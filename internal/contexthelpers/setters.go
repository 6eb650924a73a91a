package contexthelpers

import "context"

// SetAuthenticatedUserID stores the identified user's id in the context.
func SetAuthenticatedUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, authenticatedUserIDKey, userID)
}
