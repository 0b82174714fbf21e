package auth

import "github.com/google/uuid"

// Principal identifies the authenticated caller for ownership checks.
type Principal struct {
	UserID  uuid.UUID
	IsStaff bool
}
