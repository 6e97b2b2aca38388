package main

// Notifier blank imports: each import registers a provider with the notifier
// registry. Add new providers here as they are implemented.

import (
	_ "github.com/Strob0t/followup/internal/adapter/discord"
	_ "github.com/Strob0t/followup/internal/adapter/email"
	_ "github.com/Strob0t/followup/internal/adapter/slack"
)
