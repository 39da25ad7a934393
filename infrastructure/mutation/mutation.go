// Package mutation runs writes against the directory and invalidates the
// query cache when they succeed.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"adminconsole/infrastructure/cache"
	"adminconsole/infrastructure/directory"
	"adminconsole/models"

	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("validation failed")

// ValidationError is returned before any network call when input is rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Directory is the subset of the directory client the executor writes through.
type Directory interface {
	DeleteUser(ctx context.Context, id string) error
	UpdateRole(ctx context.Context, id string, patch directory.RolePatch) (models.Role, error)
}

// RoleInput is what the edit role form submits.
type RoleInput struct {
	Name        string `validate:"required,max=200"`
	Description string `validate:"max=2000"`
	IsDefault   bool
}

type Executor struct {
	dir      Directory
	cache    *cache.QueryCache
	validate *validator.Validate
}

func NewExecutor(dir Directory, c *cache.QueryCache) *Executor {
	return &Executor{dir: dir, cache: c, validate: validator.New()}
}

// DeleteUser deletes the user and marks every users query stale. On failure
// the cache is left as it was.
func (e *Executor) DeleteUser(ctx context.Context, id string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("delete user panicked", slog.String("user_id", id), slog.Any("panic", rec))
			err = fmt.Errorf("Delete failed: %v", rec)
		}
	}()

	if err := e.dir.DeleteUser(ctx, id); err != nil {
		slog.Warn("delete user failed", slog.String("user_id", id), slog.Any("err", err))
		return err
	}
	e.cache.Invalidate(cache.Users)
	return nil
}

// UpdateRole trims and validates in, patches the role and marks every roles
// query stale, the id lookup included.
func (e *Executor) UpdateRole(ctx context.Context, id string, in RoleInput) (models.Role, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := e.check(in); err != nil {
		return models.Role{}, err
	}

	role, err := e.dir.UpdateRole(ctx, id, directory.RolePatch{
		Name:        in.Name,
		Description: in.Description,
		IsDefault:   in.IsDefault,
	})
	if err != nil {
		slog.Warn("update role failed", slog.String("role_id", id), slog.Any("err", err))
		return models.Role{}, err
	}
	e.cache.Invalidate(cache.Roles)
	return role, nil
}

func (e *Executor) check(in RoleInput) error {
	err := e.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return fmt.Errorf("validate role: %w", err)
	}
	f := fields[0]
	switch f.Tag() {
	case "required":
		return &ValidationError{Field: f.Field(), Message: f.Field() + " is required"}
	case "max":
		return &ValidationError{Field: f.Field(), Message: fmt.Sprintf("%s must be at most %s characters", f.Field(), f.Param())}
	default:
		return &ValidationError{Field: f.Field(), Message: f.Field() + " is invalid"}
	}
}
