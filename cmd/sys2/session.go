package main

import (
	"sys2core/internal/session"
)

// openSession builds a Session from the CLI's --config/--base-path flags.
// No Parser is wired in: this CLI never issues a `@_ Load` directive, so
// a session that can't resolve one never needs one (session.Open's parser
// argument may be nil).
func openSession() (*session.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, usageErrorf("loading config: %w", err)
	}
	s, err := session.Open(cfg, nil, logger)
	if err != nil {
		return nil, usageErrorf("opening session: %w", err)
	}
	return s, nil
}
