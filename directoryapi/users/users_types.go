package users

import "errors"

var ErrUserNotFound = errors.New("user not found")

// NewUser is a user to insert, used by seeding.
type NewUser struct {
	ID     string
	First  string `validate:"required,max=100"`
	Last   string `validate:"required,max=100"`
	RoleID string `validate:"required"`
	Photo  string `validate:"omitempty,url"`
}
