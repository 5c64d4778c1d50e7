package postgres

import (
	"fmt"

	"github.com/atelier-interiors/cms-backend/config"
)

// DSN returns cfg.URL when set, otherwise a keyword/value DSN built from parts.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)
}
