package ports

import (
	"context"
	"vendor-ledger-service/internal/domain"
)

// Port: typed key/value configuration rows.
type SettingRepository interface {
	// One setting. Returns domain.ErrNotFound when the key has no row.
	GetSetting(ctx context.Context, key string) (*domain.Setting, error)

	// Insert or replace a setting.
	PutSetting(ctx context.Context, setting *domain.Setting) error

	// All settings ordered by key.
	ListSettings(ctx context.Context) ([]*domain.Setting, error)
}
