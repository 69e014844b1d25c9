// /internal/settings/store.go
package settings

import (
	"fmt"
	"strings"

	"github.com/keshon/datastore"
)

// Store is the runtime key/value configuration, backed by a JSON datastore
// that autosaves and writes atomically. Reads are in-memory and never fail;
// missing keys fall back to registry defaults. Every read goes to the store
// so dashboard edits take effect on the next evaluation without restart.
type Store struct {
	ds *datastore.DataStore
}

func New(filePath string) (*Store, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}
	return &Store{ds: ds}, nil
}

func (s *Store) Close() error {
	return s.ds.Close()
}

// raw returns the stored value or the registry default.
func (s *Store) raw(key string) any {
	if v, ok := s.ds.Get(key); ok {
		return v
	}
	return DefaultFor(key)
}

func (s *Store) Bool(key string) bool {
	switch v := s.raw(key).(type) {
	case bool:
		return v
	default:
		return false
	}
}

func (s *Store) Int(key string) int {
	switch v := s.raw(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64: // JSON numbers decode as float64
		return int(v)
	default:
		return 0
	}
}

func (s *Store) Float(key string) float64 {
	var f float64
	switch v := s.raw(key).(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0
	}
	if isChanceKey(key) {
		f = clamp01(f)
	}
	return f
}

func (s *Store) String(key string) string {
	switch v := s.raw(key).(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (s *Store) StringSlice(key string) []string {
	switch v := s.raw(key).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return nil
	}
}

// Set validates the value against the registered type, clamps probability
// keys to [0,1], and persists. Unknown keys are rejected.
func (s *Store) Set(key string, value any) (any, error) {
	meta, ok := Lookup(key)
	if !ok {
		return nil, fmt.Errorf("unknown setting %q", key)
	}

	coerced, err := coerce(meta.Type, key, value)
	if err != nil {
		return nil, err
	}

	s.ds.Add(key, coerced)
	if err := s.ds.SaveToFile(); err != nil {
		return nil, fmt.Errorf("persist setting %q: %w", key, err)
	}
	return coerced, nil
}

// Value returns the effective value for a registered key (stored or default).
func (s *Store) Value(key string) any {
	return s.raw(key)
}

func coerce(t ValueType, key string, value any) (any, error) {
	switch t {
	case TypeBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			lower := strings.ToLower(v)
			return lower == "true" || lower == "1" || lower == "yes", nil
		}
	case TypeInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case float64:
			return int(v), nil
		}
	case TypeFloat:
		switch v := value.(type) {
		case float64:
			if isChanceKey(key) {
				v = clamp01(v)
			}
			return v, nil
		case int:
			f := float64(v)
			if isChanceKey(key) {
				f = clamp01(f)
			}
			return f, nil
		}
	case TypeString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case TypeList:
		switch v := value.(type) {
		case []string:
			return v, nil
		case []any:
			out := make([]string, 0, len(v))
			for _, e := range v {
				out = append(out, fmt.Sprint(e))
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("invalid value for type %s", t)
}

func isChanceKey(key string) bool {
	return strings.HasSuffix(key, ".chance") || strings.HasSuffix(key, "_chance")
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
