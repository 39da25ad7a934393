package users

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

func filterUsers(q *bun.SelectQuery, search string) *bun.SelectQuery {
	search = strings.TrimSpace(search)
	if search == "" {
		return q
	}
	like := apiresponse.LikePattern(search)
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where(`u.first LIKE ? ESCAPE '!'`, like).
			WhereOr(`u.last LIKE ? ESCAPE '!'`, like).
			WhereOr(`(u.first || ' ' || u.last) LIKE ? ESCAPE '!'`, like)
	})
}

// ListUsers returns one page of users whose first, last or full name contains
// search, ordered by last name, first name, id.
func ListUsers(ctx context.Context, db *sqlite.DB, page, size int, search string) (models.Paged[models.User], error) {
	out := models.EmptyPage[models.User]()
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		total, err := filterUsers(tx.NewSelect().Model((*models.User)(nil)), search).Count(ctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		meta := paging.Compute(page, size, total)
		out.Pages, out.Next, out.Prev = meta.Pages, meta.Next, meta.Prev
		if meta.Offset >= total {
			return nil
		}

		rows := make([]models.User, 0, meta.Limit)
		if err := filterUsers(tx.NewSelect().Model(&rows), search).
			OrderExpr("u.last COLLATE NOCASE ASC, u.first COLLATE NOCASE ASC, u.id ASC").
			Limit(meta.Limit).
			Offset(meta.Offset).
			Scan(ctx); err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		out.Data = rows
		return nil
	})
	return out, err
}

// InsertUser stores a new user and records it in the audit log.
func InsertUser(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor string, in NewUser) (models.User, error) {
	in.First = strings.TrimSpace(in.First)
	in.Last = strings.TrimSpace(in.Last)
	in.Photo = strings.TrimSpace(in.Photo)
	if err := validate.Struct(in); err != nil {
		return models.User{}, fmt.Errorf("invalid user: %w", err)
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	u := models.User{ID: in.ID, First: in.First, Last: in.Last, RoleID: in.RoleID, Photo: in.Photo, CreatedAt: now, UpdatedAt: now}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&u).Exec(ctx); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return auditSvc.Write(ctx, tx, actor, "user.create", "users", u.ID, nil, u)
	})
	return u, err
}

// DeleteUser removes one user. ErrUserNotFound when the id is unknown.
func DeleteUser(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor, id string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.User
		if err := tx.NewSelect().Model(&before).Where("u.id = ?", id).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}
		if _, err := tx.NewDelete().TableExpr("users").Where("id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return auditSvc.Write(ctx, tx, actor, "user.delete", "users", id, before, nil)
	})
}
