package ports

import "context"

// Fixed settings keys
const (
	SettingNotificationsEnabled = "notificationsEnabled"
	SettingExportBookmark       = "exportBookmark"
	SettingExportDisplayPath    = "exportDisplayPath"
)

// SettingsStore persists small key/value preferences
type SettingsStore interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error
	GetBool(ctx context.Context, key string, fallback bool) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
	Delete(ctx context.Context, key string) error
}
