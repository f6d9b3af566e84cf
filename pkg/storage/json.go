package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Load decodes the JSON blob under key into dst. When the key is absent, dst is
// left untouched and found is false.
func Load(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, found, err := s.LoadRaw(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Save serializes v in full and stores it under key.
func Save(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.SaveRaw(ctx, key, raw)
}

// SaveMany serializes every value and commits them in one write.
func SaveMany(ctx context.Context, s Store, values map[string]any) error {
	raws := make(map[string][]byte, len(values))
	for key, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		raws[key] = raw
	}
	return s.SaveManyRaw(ctx, raws)
}
