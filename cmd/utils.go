package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hindsight-tools/hindsight/pkg/config"
	"github.com/hindsight-tools/hindsight/pkg/storage"
)

// openStore loads the config and opens the store it points at.
func openStore(configPath string) (*storage.Store, *config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := storage.NewStore(cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return store, cfg, nil
}

// parseWhen parses a time bound flag: a date (2006-01-02), an RFC 3339
// timestamp, or raw epoch milliseconds. Empty means unset (zero).
func parseWhen(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t.UnixMilli(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UnixMilli(), nil
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return ms, nil
	}
	return 0, fmt.Errorf("cannot parse %q as a date, timestamp or epoch milliseconds", value)
}
