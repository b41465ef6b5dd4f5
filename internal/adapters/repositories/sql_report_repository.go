package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"vendor-ledger-service/internal/domain"
	"vendor-ledger-service/internal/platform/obs"
)

// SQLReportRepository reads sale lines from the Postgres reporting mirror.
// It implements the same ReportSource port as the embedded store, so report
// tooling can point at either.
type SQLReportRepository struct {
	DB *sql.DB
}

func NewSQLReportRepository(db *sql.DB) *SQLReportRepository {
	return &SQLReportRepository{DB: db}
}

// Fetch sale lines joined with item costing fields for the inclusive range.
func (s *SQLReportRepository) ListSaleLines(
	ctx context.Context,
	start, end time.Time,
) (_ []*domain.SaleLine, err error) {
	defer obs.Time(ctx, "report.mirror.ListSaleLines")(&err)

	if s.DB == nil {
		return nil, errors.New("report mirror: db is nil")
	}

	q := `
	SELECT
		s.id, s.item_id, s.customer, s.quantity, s.price::text, to_char(s.date, 'YYYY-MM-DD'),
		s.status, s.payment_method, to_char(s.created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.US000"Z"'),
		i.category, i.flavor, i.unit_cost::text
	FROM sales s
	INNER JOIN items i ON s.item_id = i.id
	WHERE s.date BETWEEN $1 AND $2
	ORDER BY s.date DESC, s.id DESC;
	`

	rows, err := s.DB.QueryContext(ctx, q, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("list mirror sale lines: query sales join items: %w", err)
	}
	defer rows.Close()

	lines := make([]*domain.SaleLine, 0, 16)
	for rows.Next() {
		l, err := scanSaleLine(rows)
		if err != nil {
			return nil, fmt.Errorf("list mirror sale lines: scan row: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list mirror sale lines: row iteration: %w", err)
	}

	return lines, nil
}
