package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a directory user as served by GET /users.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        string    `bun:"id,pk" json:"id"`
	First     string    `bun:"first,notnull" json:"first"`
	Last      string    `bun:"last,notnull" json:"last"`
	RoleID    string    `bun:"role_id,notnull" json:"roleId"`
	Photo     string    `bun:"photo,nullzero" json:"photo,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// FullName joins first and last name the way the users table shows it.
func (u User) FullName() string {
	switch {
	case u.First == "":
		return u.Last
	case u.Last == "":
		return u.First
	default:
		return u.First + " " + u.Last
	}
}

// Role is a directory role as served by GET /roles.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID          string    `bun:"id,pk" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description,notnull" json:"description"`
	IsDefault   bool      `bun:"is_default,notnull,default:false" json:"isDefault"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// Paged is exactly one page of a collection. Next and Prev are nil at the
// last and first page respectively.
type Paged[T any] struct {
	Data  []T  `json:"data"`
	Next  *int `json:"next"`
	Prev  *int `json:"prev"`
	Pages int  `json:"pages"`
}

// EmptyPage is what consumers show before the first page arrives.
func EmptyPage[T any]() Paged[T] {
	return Paged[T]{Data: []T{}}
}

// AuditLog captures immutable change history for directory writes.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Actor      string    `bun:"actor,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
