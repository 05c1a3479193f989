package model

import "github.com/google/uuid"

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsOperator() bool {
	return p.Role == RoleOperator
}
