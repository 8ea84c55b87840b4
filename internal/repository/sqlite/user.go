package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/voip-user-api/internal/apperror"
	"github.com/sakif/voip-user-api/internal/model"
	"github.com/sakif/voip-user-api/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, username, password_hash, name, extension, created_at, updated_at`

// Create inserts a new account. The ID and timestamps are assigned here; the
// caller's struct is updated in place.
//
// A UNIQUE violation on username or extension is reported as a conflict, not
// a storage failure: it is the authoritative answer to a race the service
// layer's pre-check cannot close.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO voip_users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		nullableString(user.Username),
		user.PasswordHash,
		user.Name,
		user.Extension,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return conflictFor(err)
		}
		return fmt.Errorf("sqlite: inserting user (extension=%s): %w", user.Extension, err)
	}

	return nil
}

// GetByID retrieves an account by its internal id.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getOne(ctx, `WHERE id = ?`, id, "id "+id)
}

// GetByUsername retrieves an account by its login username (case-sensitive).
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getOne(ctx, `WHERE username = ?`, username, "username "+username)
}

// GetByExtension retrieves an account by its extension.
func (db *DB) GetByExtension(ctx context.Context, extension string) (*model.User, error) {
	return db.getOne(ctx, `WHERE extension = ?`, extension, "extension "+extension)
}

func (db *DB) getOne(ctx context.Context, where string, arg any, key string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM voip_users `+where, arg)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("sqlite: getting user by %s: %w", key, err)
	}
	return u, nil
}

// List returns all accounts ordered by extension.
func (db *DB) List(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM voip_users ORDER BY extension`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user rows: %w", err)
	}

	return users, nil
}

// Update rewrites the mutable fields (name, extension) of an existing
// account and bumps updated_at. Unknown ids report not-found; an extension
// UNIQUE violation reports a conflict, same as Create.
func (db *DB) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE voip_users SET name = ?, extension = ?, updated_at = ? WHERE id = ?`,
		user.Name,
		user.Extension,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return conflictFor(err)
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", "id "+user.ID)
	}

	return nil
}

// Delete removes an account by id. Unknown ids report not-found.
func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM voip_users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", "id "+id)
	}

	return nil
}

// ExistsByUsername reports whether any account holds the given username.
func (db *DB) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return db.exists(ctx, `username`, username)
}

// ExistsByExtension reports whether any account holds the given extension.
func (db *DB) ExistsByExtension(ctx context.Context, extension string) (bool, error) {
	return db.exists(ctx, `extension`, extension)
}

func (db *DB) exists(ctx context.Context, column, value string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM voip_users WHERE `+column+` = ?`, value,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking %s existence: %w", column, err)
	}
	return n > 0, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	var username sql.NullString
	err := s.Scan(
		&u.ID,
		&username,
		&u.PasswordHash,
		&u.Name,
		&u.Extension,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Username = username.String
	return &u, nil
}

// nullableString maps "" to NULL so the UNIQUE(username) constraint ignores
// accounts that have no login.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// conflictFor turns a UNIQUE violation into the conflict error the service
// layer's own pre-check would have produced, naming the contested column.
func conflictFor(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "voip_users.extension"):
		return apperror.Conflict("extension already in use")
	case strings.Contains(msg, "voip_users.username"):
		return apperror.Conflict("username already in use")
	default:
		return apperror.Conflict("user already exists")
	}
}
