package slack

import "github.com/Strob0t/followup/internal/port/notifier"

func init() {
	notifier.Register(providerName, func(settings map[string]string) (notifier.Notifier, error) {
		url := settings["webhook_url"]
		if url == "" {
			return nil, notifier.ErrNotConfigured
		}
		return NewNotifier(url), nil
	})
}
