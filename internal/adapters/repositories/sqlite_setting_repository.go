package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"vendor-ledger-service/internal/domain"
)

// SQLite-backed implementation of the SettingRepository port.
type SqliteSettingRepository struct{ DB *sql.DB }

func NewSqliteSettingRepository(db *sql.DB) *SqliteSettingRepository {
	return &SqliteSettingRepository{DB: db}
}

// Return one setting row.
func (s *SqliteSettingRepository) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite setting repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT key, value, type, created_at
	FROM settings
	WHERE key = ?;
	`, key)

	setting, err := scanSetting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get setting key=%q: %w", key, err)
	}

	return setting, nil
}

// Insert or replace a setting row.
func (s *SqliteSettingRepository) PutSetting(ctx context.Context, setting *domain.Setting) error {
	if s.DB == nil {
		return errors.New("sqlite setting repository: DB is nil")
	}

	if setting.Key == "" {
		return domain.Validationf("key", "must not be blank")
	}

	createdAt := setting.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO settings (key, value, type, created_at)
	VALUES (?, ?, ?, ?);
	`, setting.Key, setting.Value, string(setting.Type), createdAt.Format(timestampLayout)); err != nil {
		return fmt.Errorf("put setting key=%q: %w", setting.Key, err)
	}

	return nil
}

// Return all settings ordered by key.
func (s *SqliteSettingRepository) ListSettings(ctx context.Context) ([]*domain.Setting, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite setting repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT key, value, type, created_at
	FROM settings
	ORDER BY key;
	`)
	if err != nil {
		return nil, fmt.Errorf("list settings: query settings table: %w", err)
	}
	defer rows.Close()

	settings := make([]*domain.Setting, 0, 8)
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("list settings: scan row: %w", err)
		}
		settings = append(settings, setting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list settings: row iteration: %w", err)
	}

	return settings, nil
}

func scanSetting(sc rowScanner) (*domain.Setting, error) {
	var (
		s         domain.Setting
		typ       string
		createdAt string
	)
	if err := sc.Scan(&s.Key, &s.Value, &typ, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	s.Type = domain.SettingType(typ)

	return &s, nil
}
