package auth

import (
	"sync/atomic"
	"time"
)

// Settings is the signing configuration shared by every codec call.
type Settings struct {
	Secret    []byte
	Algorithm string
	AccessTTL time.Duration
}

// SettingsStore publishes Settings snapshots. Readers always observe either
// the previous or the next value in full.
type SettingsStore struct {
	current atomic.Pointer[Settings]
}

func NewSettingsStore(settings Settings) *SettingsStore {
	store := &SettingsStore{}
	store.Reload(settings)
	return store
}

func (s *SettingsStore) Current() Settings {
	return *s.current.Load()
}

// Reload swaps in next. Tokens signed with a previous secret stop verifying
// as soon as the swap happens.
func (s *SettingsStore) Reload(next Settings) {
	secret := make([]byte, len(next.Secret))
	copy(secret, next.Secret)
	next.Secret = secret
	s.current.Store(&next)
}
