package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Strob0t/followup/internal/domain"
	"github.com/Strob0t/followup/internal/port/cache"
	"github.com/Strob0t/followup/internal/port/database"
)

const directoryKeyPrefix = "dir:"

// DirectoryResolver maps task owners to mail addresses. Owners that already
// look like an address are used as-is; names go through the directory, with
// hits cached for ttl.
type DirectoryResolver struct {
	dir   database.Directory
	cache cache.Cache
	ttl   time.Duration
}

// NewDirectoryResolver creates a DirectoryResolver. c may be nil.
func NewDirectoryResolver(dir database.Directory, c cache.Cache, ttl time.Duration) *DirectoryResolver {
	return &DirectoryResolver{dir: dir, cache: c, ttl: ttl}
}

// Resolve returns the address of owner. It returns domain.ErrNotFound when
// the owner is unknown.
func (r *DirectoryResolver) Resolve(ctx context.Context, owner string) (string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", fmt.Errorf("resolve owner: empty name: %w", domain.ErrNotFound)
	}
	if strings.Contains(owner, "@") {
		return owner, nil
	}

	key := directoryKeyPrefix + strings.ToLower(owner)
	if r.cache != nil {
		if v, ok, err := r.cache.Get(ctx, key); err == nil && ok {
			return string(v), nil
		} else if err != nil {
			slog.Debug("directory cache read failed", "key", key, "error", err)
		}
	}

	addr, err := r.dir.LookupEmail(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("resolve owner %q: %w", owner, domain.ErrNotFound)
		}
		return "", fmt.Errorf("resolve owner %q: %w", owner, err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, []byte(addr), r.ttl); err != nil {
			slog.Debug("directory cache write failed", "key", key, "error", err)
		}
	}
	return addr, nil
}
