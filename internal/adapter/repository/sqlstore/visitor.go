package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type VisitorRepository struct {
	db *sqlx.DB
}

func NewVisitorRepository(db *sqlx.DB) *VisitorRepository {
	return &VisitorRepository{db: db}
}

// Increment bumps the single counter row in one statement and returns the new total.
func (r *VisitorRepository) Increment(ctx context.Context) (int64, error) {
	const op = "adapter.repository.sqlstore.VisitorRepository.Increment"
	const query = `INSERT INTO visitor_counter(id, visits) VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET visits = visitor_counter.visits + 1
		RETURNING visits`

	var visits int64

	if err := r.db.GetContext(ctx, &visits, query); err != nil {
		return 0, fmt.Errorf("%s: failed to increment visitor counter: %w", op, err)
	}

	return visits, nil
}
