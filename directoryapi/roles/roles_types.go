package roles

import "errors"

var (
	ErrRoleNotFound = errors.New("role not found")
	ErrNameRequired = errors.New("name is required")
	ErrInvalidRole  = errors.New("invalid role")
)

// Patch is the PATCH /roles/{id} body. Absent fields are left unchanged.
type Patch struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	IsDefault   *bool   `json:"isDefault"`
}

// NewRole is a role to insert, used by seeding.
type NewRole struct {
	ID          string
	Name        string `validate:"required,max=200"`
	Description string `validate:"max=2000"`
	IsDefault   bool
}
