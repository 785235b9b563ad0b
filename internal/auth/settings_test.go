package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsStoreCopiesSecret(t *testing.T) {
	t.Parallel()

	secret := []byte("original")
	store := NewSettingsStore(Settings{Secret: secret, Algorithm: "HS256", AccessTTL: time.Minute})

	secret[0] = 'X'
	require.Equal(t, "original", string(store.Current().Secret))
}

func TestSettingsStoreReloadIsAtomic(t *testing.T) {
	t.Parallel()

	a := Settings{Secret: []byte("secret-a"), Algorithm: "HS256", AccessTTL: time.Minute}
	b := Settings{Secret: []byte("secret-b"), Algorithm: "HS512", AccessTTL: time.Hour}
	store := NewSettingsStore(a)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				store.Reload(b)
			} else {
				store.Reload(a)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			current := store.Current()
			switch string(current.Secret) {
			case "secret-a":
				assert.Equal(t, "HS256", current.Algorithm)
				assert.Equal(t, time.Minute, current.AccessTTL)
			case "secret-b":
				assert.Equal(t, "HS512", current.Algorithm)
				assert.Equal(t, time.Hour, current.AccessTTL)
			default:
				t.Errorf("torn settings read: %q", current.Secret)
			}
		}
	}()
	wg.Wait()
}
