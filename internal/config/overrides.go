package config

// Overrides carries command-line values. A nil field leaves the loaded value
// untouched, so flags sit on top of every other layer.
type Overrides struct {
	Port     *string
	DSN      *string
	NatsURL  *string
	LogLevel *string
}

// Apply writes the non-nil overrides onto cfg and re-validates it.
func (o Overrides) Apply(cfg *Config) error {
	if o.Port != nil {
		cfg.Server.Port = *o.Port
	}
	if o.DSN != nil {
		cfg.Postgres.DSN = *o.DSN
	}
	if o.NatsURL != nil {
		cfg.NATS.URL = *o.NatsURL
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	return validate(cfg)
}
