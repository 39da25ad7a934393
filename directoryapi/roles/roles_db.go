package roles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"adminconsole/directoryapi/apiresponse"
	"adminconsole/infrastructure/audit"
	"adminconsole/infrastructure/paging"
	"adminconsole/infrastructure/sqlite"
	"adminconsole/models"
)

var validate = validator.New()

func filterRoles(q *bun.SelectQuery, search string) *bun.SelectQuery {
	search = strings.TrimSpace(search)
	if search == "" {
		return q
	}
	like := apiresponse.LikePattern(search)
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where(`r.name LIKE ? ESCAPE '!'`, like).
			WhereOr(`r.description LIKE ? ESCAPE '!'`, like)
	})
}

// ListRoles returns one page of roles whose name or description contains
// search, ordered by name then id.
func ListRoles(ctx context.Context, db *sqlite.DB, page, size int, search string) (models.Paged[models.Role], error) {
	out := models.EmptyPage[models.Role]()
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		total, err := filterRoles(tx.NewSelect().Model((*models.Role)(nil)), search).Count(ctx)
		if err != nil {
			return fmt.Errorf("count roles: %w", err)
		}
		meta := paging.Compute(page, size, total)
		out.Pages, out.Next, out.Prev = meta.Pages, meta.Next, meta.Prev
		if meta.Offset >= total {
			return nil
		}

		rows := make([]models.Role, 0, meta.Limit)
		if err := filterRoles(tx.NewSelect().Model(&rows), search).
			OrderExpr("r.name COLLATE NOCASE ASC, r.id ASC").
			Limit(meta.Limit).
			Offset(meta.Offset).
			Scan(ctx); err != nil {
			return fmt.Errorf("list roles: %w", err)
		}
		out.Data = rows
		return nil
	})
	return out, err
}

func normalizePatch(p Patch) (Patch, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		p.Description = &desc
	}
	err := validate.Struct(p)
	if err == nil {
		return p, nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 && fields[0].Field() == "Name" && fields[0].Tag() == "min" {
		return p, ErrNameRequired
	}
	return p, fmt.Errorf("%w: %v", ErrInvalidRole, err)
}

// UpdateRole applies p to role id. Making a role the default clears the
// flag on every other role.
func UpdateRole(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor, id string, p Patch) (models.Role, error) {
	p, err := normalizePatch(p)
	if err != nil {
		return models.Role{}, err
	}

	var after models.Role
	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.Role
		if err := tx.NewSelect().Model(&before).Where("r.id = ?", id).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoleNotFound
			}
			return fmt.Errorf("load role: %w", err)
		}

		after = before
		if p.Name != nil {
			after.Name = *p.Name
		}
		if p.Description != nil {
			after.Description = *p.Description
		}
		if p.IsDefault != nil {
			after.IsDefault = *p.IsDefault
		}
		after.UpdatedAt = time.Now().UTC()

		if after.IsDefault && !before.IsDefault {
			if _, err := tx.NewUpdate().TableExpr("roles").
				Set("is_default = ?", false).
				Set("updated_at = ?", after.UpdatedAt).
				Where("id <> ? AND is_default = ?", id, true).
				Exec(ctx); err != nil {
				return fmt.Errorf("clear default role: %w", err)
			}
		}
		if _, err := tx.NewUpdate().Model(&after).
			Column("name", "description", "is_default", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		return auditSvc.Write(ctx, tx, actor, "role.update", "roles", id, before, after)
	})
	if err != nil {
		return models.Role{}, err
	}
	return after, nil
}

// InsertRole stores a new role and records it in the audit log.
func InsertRole(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor string, in NewRole) (models.Role, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validate.Struct(in); err != nil {
		return models.Role{}, fmt.Errorf("%w: %v", ErrInvalidRole, err)
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	role := models.Role{ID: in.ID, Name: in.Name, Description: in.Description, IsDefault: in.IsDefault, CreatedAt: now, UpdatedAt: now}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if role.IsDefault {
			if _, err := tx.NewUpdate().TableExpr("roles").Set("is_default = ?", false).Where("is_default = ?", true).Exec(ctx); err != nil {
				return fmt.Errorf("clear default role: %w", err)
			}
		}
		if _, err := tx.NewInsert().Model(&role).Exec(ctx); err != nil {
			return fmt.Errorf("insert role: %w", err)
		}
		return auditSvc.Write(ctx, tx, actor, "role.create", "roles", role.ID, nil, role)
	})
	return role, err
}
