package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"vendor-ledger-service/internal/domain"

	"github.com/shopspring/decimal"
)

// SQLite-backed implementation of the SaleRepository and ReportSource ports.
// Every write that touches the item counter runs in one transaction with the
// sale row change.
type SqliteSaleRepository struct{ DB *sql.DB }

func NewSqliteSaleRepository(db *sql.DB) *SqliteSaleRepository {
	return &SqliteSaleRepository{DB: db}
}

// Insert the sale and apply the paired sold-quantity increment. The stock
// check runs inside the transaction so the 0 <= sold <= initial invariant
// holds on commit.
func (s *SqliteSaleRepository) CreateSale(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite sale repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create sale: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var initial, sold int
	err = tx.QueryRowContext(ctx, `
	SELECT initial_quantity, sold_quantity
	FROM items
	WHERE id = ?;
	`, sale.ItemID).Scan(&initial, &sold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Validationf("item_id", "does not reference an existing item")
	}
	if err != nil {
		return nil, fmt.Errorf("create sale: read item id=%d: %w", sale.ItemID, err)
	}

	if sold+sale.Quantity > initial {
		return nil, domain.Validationf("quantity", "exceeds remaining stock (%d left)", initial-sold)
	}

	createdAt := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
	INSERT INTO sales (item_id, customer, quantity, price, date, status, payment_method, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`,
		sale.ItemID,
		sale.Customer,
		sale.Quantity,
		sale.Price.String(),
		sale.Date.Format(domain.DateLayout),
		string(sale.Status),
		nullableText(sale.PaymentMethod),
		createdAt.Format(timestampLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("create sale: insert sale: %w", err)
	}

	saleID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create sale: last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE items
	SET sold_quantity = sold_quantity + ?
	WHERE id = ?;
	`, sale.Quantity, sale.ItemID); err != nil {
		return nil, fmt.Errorf("create sale: increment item id=%d: %w", sale.ItemID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create sale: commit tx: %w", err)
	}

	created := *sale
	created.SaleID = saleID
	created.CreatedAt = createdAt

	return &created, nil
}

// Return sales of one item, newest sale date first.
func (s *SqliteSaleRepository) ListSalesByItem(ctx context.Context, itemID int64) ([]*domain.Sale, error) {
	query := `
	SELECT id, item_id, customer, quantity, price, date, status, payment_method, created_at
	FROM sales
	WHERE item_id = ?
	ORDER BY date DESC, id DESC;
	`
	return s.querySales(ctx, query, itemID)
}

// Return one sale.
func (s *SqliteSaleRepository) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite sale repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT id, item_id, customer, quantity, price, date, status, payment_method, created_at
	FROM sales
	WHERE id = ?;
	`, id)

	sale, err := scanSale(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sale id=%d: %w", id, err)
	}

	return sale, nil
}

// Overwrite the payment status. No quantity side effects.
func (s *SqliteSaleRepository) UpdateSaleStatus(ctx context.Context, id int64, status domain.Status) error {
	if s.DB == nil {
		return errors.New("sqlite sale repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
	UPDATE sales
	SET status = ?
	WHERE id = ?;
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("update sale status id=%d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update sale status id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Return sales with date in the inclusive range, newest sale date first.
func (s *SqliteSaleRepository) ListSalesByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Sale, error) {
	query := `
	SELECT id, item_id, customer, quantity, price, date, status, payment_method, created_at
	FROM sales
	WHERE date BETWEEN ? AND ?
	ORDER BY date DESC, id DESC;
	`
	return s.querySales(ctx, query, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
}

// Return the most recently created sales.
func (s *SqliteSaleRepository) ListRecentSales(ctx context.Context, limit int) ([]*domain.Sale, error) {
	query := `
	SELECT id, item_id, customer, quantity, price, date, status, payment_method, created_at
	FROM sales
	ORDER BY created_at DESC, id DESC
	LIMIT ?;
	`
	return s.querySales(ctx, query, limit)
}

func (s *SqliteSaleRepository) querySales(ctx context.Context, query string, args ...any) ([]*domain.Sale, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite sale repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: query sales table: %w", err)
	}
	defer rows.Close()

	sales := make([]*domain.Sale, 0, 16)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("list sales: scan row: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: row iteration: %w", err)
	}

	return sales, nil
}

// Sum prices over one status inside the inclusive range. Prices are stored
// as exact decimal text, so the fold happens here rather than in SQL.
func (s *SqliteSaleRepository) SumByStatusInRange(
	ctx context.Context,
	status domain.Status,
	start, end time.Time,
) (decimal.Decimal, error) {
	if s.DB == nil {
		return decimal.Zero, errors.New("sqlite sale repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT price
	FROM sales
	WHERE date BETWEEN ? AND ?
		AND status = ?;
	`, start.Format(domain.DateLayout), end.Format(domain.DateLayout), string(status))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum sales status=%s: query sales table: %w", status, err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var price string
		if err := rows.Scan(&price); err != nil {
			return decimal.Zero, fmt.Errorf("sum sales status=%s: scan row: %w", status, err)
		}
		p, err := parseMoney(price)
		if err != nil {
			return decimal.Zero, fmt.Errorf("sum sales status=%s: %w", status, err)
		}
		total = total.Add(p)
	}

	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("sum sales status=%s: row iteration: %w", status, err)
	}

	return total, nil
}

// Delete a sale and apply the inverse sold-quantity decrement in one
// transaction. A missing id is a silent no-op. The decrement floors at
// zero so a corrected ledger cannot report negative sold stock.
func (s *SqliteSaleRepository) DeleteSale(ctx context.Context, id int64) error {
	if s.DB == nil {
		return errors.New("sqlite sale repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete sale id=%d: begin tx: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	var itemID int64
	var quantity int
	err = tx.QueryRowContext(ctx, `
	SELECT item_id, quantity
	FROM sales
	WHERE id = ?;
	`, id).Scan(&itemID, &quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete sale id=%d: read sale: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE items
	SET sold_quantity = MAX(sold_quantity - ?, 0)
	WHERE id = ?;
	`, quantity, itemID); err != nil {
		return fmt.Errorf("delete sale id=%d: decrement item id=%d: %w", id, itemID, err)
	}

	if _, err := tx.ExecContext(ctx, `
	DELETE FROM sales
	WHERE id = ?;
	`, id); err != nil {
		return fmt.Errorf("delete sale id=%d: delete row: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete sale id=%d: commit tx: %w", id, err)
	}

	return nil
}

// Return sale lines joined with item costing fields for report aggregation.
func (s *SqliteSaleRepository) ListSaleLines(ctx context.Context, start, end time.Time) ([]*domain.SaleLine, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite sale repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		s.id, s.item_id, s.customer, s.quantity, s.price, s.date, s.status, s.payment_method, s.created_at,
		i.category, i.flavor, i.unit_cost
	FROM sales s
	INNER JOIN items i ON s.item_id = i.id
	WHERE s.date BETWEEN ? AND ?
	ORDER BY s.date DESC, s.id DESC;
	`, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("list sale lines: query sales join items: %w", err)
	}
	defer rows.Close()

	lines := make([]*domain.SaleLine, 0, 16)
	for rows.Next() {
		l, err := scanSaleLine(rows)
		if err != nil {
			return nil, fmt.Errorf("list sale lines: scan row: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sale lines: row iteration: %w", err)
	}

	return lines, nil
}

func scanSaleLine(sc rowScanner) (*domain.SaleLine, error) {
	var (
		l         domain.SaleLine
		price     string
		date      string
		status    string
		method    sql.NullString
		createdAt string
		cost      string
	)
	if err := sc.Scan(
		&l.SaleID, &l.ItemID, &l.Customer, &l.Quantity, &price, &date, &status, &method, &createdAt,
		&l.Category, &l.Flavor, &cost,
	); err != nil {
		return nil, err
	}

	var err error
	if l.Price, err = parseMoney(price); err != nil {
		return nil, err
	}
	if l.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if l.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if l.UnitCost, err = parseMoney(cost); err != nil {
		return nil, err
	}
	l.Status = domain.Status(status)
	l.PaymentMethod = method.String

	return &l, nil
}
