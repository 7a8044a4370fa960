package config

// Config represents the complete application configuration
type Config struct {
	Database      DatabaseConfig      `mapstructure:"database"`
	Log           LogConfig           `mapstructure:"log"`
	Reminders     RemindersConfig     `mapstructure:"reminders"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

// DatabaseConfig selects the storage backend
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "memory"
	Path   string `mapstructure:"path"`
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// RemindersConfig controls the reminder scheduler
type RemindersConfig struct {
	// Authorized is the answer given when reminders ask for permission
	Authorized bool `mapstructure:"authorized"`
}

// NotificationsConfig holds the global toggle default
type NotificationsConfig struct {
	DefaultEnabled bool `mapstructure:"default_enabled"`
}
