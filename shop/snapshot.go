package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/princinho/urbanthreads/database"
)

// Snapshot keys, shared with the browser storefront's local storage layout.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
	KeyProducts = "products"
)

// load decodes key into dst. It reports false when the key is absent or
// holds malformed JSON; the latter is logged and treated as absent.
func load[T any](ctx context.Context, storage database.LocalStorage, key string, dst *T) (bool, error) {
	raw, err := storage.Get(ctx, key)
	if errors.Is(err, database.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("Failed to parse saved %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

func save(ctx context.Context, storage database.LocalStorage, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := storage.Set(ctx, key, raw); err != nil {
		log.Printf("Failed to persist %s: %v", key, err)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
