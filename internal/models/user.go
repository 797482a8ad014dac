package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a profile row keyed by the Supabase auth user id. Role is stored
// here so authorization is data-driven rather than a hardcoded address.
type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName sql.NullString
	PhotoURL    sql.NullString
	College     sql.NullString
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
