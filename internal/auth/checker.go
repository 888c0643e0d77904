package auth

import "context"

var _ Verifier = (*Service)(nil)

// Verifier is what the auth middleware needs from the session service
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (username string, err error)
}
