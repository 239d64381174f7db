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

type urlDB struct {
	ID          int64     `db:"id"`
	ShortCode   string    `db:"short_code"`
	OriginalURL string    `db:"original_url"`
	UserID      *int64    `db:"user_id"`
	CreatedAt   time.Time `db:"created_at"`
}

func (u *urlDB) toEntity() *entity.URL {
	return &entity.URL{
		ID:          u.ID,
		ShortCode:   u.ShortCode,
		OriginalURL: u.OriginalURL,
		UserID:      u.UserID,
		CreatedAt:   u.CreatedAt,
	}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) Save(ctx context.Context, shortCode, originalURL string, userID *int64) (*entity.URL, error) {
	const op = "adapter.repository.sqlstore.URLRepository.Save"
	const query = `INSERT INTO urls(short_code, original_url, user_id, created_at) VALUES (?, ?, ?, ?) RETURNING id`

	url := urlDB{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		UserID:      userID,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := r.db.GetContext(ctx, &url.ID, r.db.Rebind(query), shortCode, originalURL, userID, url.CreatedAt); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.sqlstore.URLRepository.RetrieveByShortCode"
	const query = `SELECT id, short_code, original_url, user_id, created_at FROM urls WHERE short_code = ?`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, r.db.Rebind(query), shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) ListByUser(ctx context.Context, userID int64) ([]entity.URL, error) {
	const op = "adapter.repository.sqlstore.URLRepository.ListByUser"
	const query = `SELECT id, short_code, original_url, user_id, created_at FROM urls
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`

	var rows []urlDB

	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("%s: failed to select rows from urls table: %w", op, err)
	}

	urls := make([]entity.URL, 0, len(rows))
	for i := range rows {
		urls = append(urls, *rows[i].toEntity())
	}

	return urls, nil
}

func (r *URLRepository) Count(ctx context.Context) (int64, error) {
	const op = "adapter.repository.sqlstore.URLRepository.Count"
	const query = `SELECT COUNT(*) FROM urls`

	var n int64

	if err := r.db.GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("%s: failed to count rows in urls table: %w", op, err)
	}

	return n, nil
}
