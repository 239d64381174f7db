package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/YogeshBarai/url-shortener/internal/entity"
	"github.com/jmoiron/sqlx"
)

type userDB struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u *userDB) toEntity() *entity.User {
	return &entity.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Save inserts a user. A clash on either username or email yields entity.ErrUserExists.
func (r *UserRepository) Save(ctx context.Context, username, email, passwordHash string) (*entity.User, error) {
	const op = "adapter.repository.sqlstore.UserRepository.Save"
	const query = `INSERT INTO users(username, email, password_hash, created_at) VALUES (?, ?, ?, ?) RETURNING id`

	user := userDB{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := r.db.GetContext(ctx, &user.ID, r.db.Rebind(query), username, email, passwordHash, user.CreatedAt); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrUserExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into users table: %w", op, err)
	}

	return user.toEntity(), nil
}

func (r *UserRepository) RetrieveByEmail(ctx context.Context, email string) (*entity.User, error) {
	const op = "adapter.repository.sqlstore.UserRepository.RetrieveByEmail"
	const query = `SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`

	var user userDB

	if err := r.db.GetContext(ctx, &user, r.db.Rebind(query), email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from users table: %w", op, err)
	}

	return user.toEntity(), nil
}
