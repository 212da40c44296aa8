package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/notewise/notewise/internal/model"
	appErr "github.com/notewise/notewise/internal/pkg/errors"
)

var userColumns = []string{"id", "guest_id", "email", "display_name", "password_hash", "is_guest", "ctime", "mtime"}

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	data := map[string]interface{}{
		"id":            user.ID,
		"guest_id":      nullable(user.GuestID),
		"email":         nullable(user.Email),
		"display_name":  user.DisplayName,
		"password_hash": user.PasswordHash,
		"is_guest":      user.IsGuest,
		"ctime":         user.Ctime,
		"mtime":         user.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("users", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = r.db.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"id": userID})
}

func (r *UserRepo) GetByGuestID(ctx context.Context, guestID string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"guest_id": guestID})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"email": email})
}

func (r *UserRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.User, error) {
	sqlStr, args, err := builder.BuildSelect("users", where, userColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = r.db.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var user model.User
	var guestID, email sql.NullString
	if err := rows.Scan(&user.ID, &guestID, &email, &user.DisplayName, &user.PasswordHash, &user.IsGuest, &user.Ctime, &user.Mtime); err != nil {
		return nil, err
	}
	user.GuestID = guestID.String
	user.Email = email.String
	return &user, nil
}

// nullable maps the empty string to NULL so unique indexes on optional
// columns do not collide.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
