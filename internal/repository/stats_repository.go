package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"lostfound/internal/lifecycle"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

// CountByEffectiveStatus counts posts grouped by the status they present at now,
// so lost/found rows past their deadline are counted as expired.
func (r *statsRepository) CountByEffectiveStatus(ctx context.Context, now time.Time) (map[lifecycle.Status]int, error) {
	query := `
		SELECT
			CASE WHEN status IN ('lost', 'found') AND expires_at <= $1 THEN 'expired' ELSE status END AS effective_status,
			COUNT(*) AS total
		FROM posts
		GROUP BY effective_status
	`

	var rows []struct {
		Status lifecycle.Status `db:"effective_status"`
		Total  int              `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, now); err != nil {
		return nil, fmt.Errorf("count posts by status: %w", err)
	}

	counts := make(map[lifecycle.Status]int, len(lifecycle.AllStatuses()))
	for _, s := range lifecycle.AllStatuses() {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] += row.Total
	}

	return counts, nil
}
