package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestDefaultsWhenUnset(t *testing.T) {
	s, _ := newTestStore(t)

	assert.True(t, s.Bool("feature.gn_police.enabled"))
	assert.Equal(t, 20, s.Int("feature.gn_police.min_minutes"))
	assert.InDelta(t, 0.10, s.Float("feature.gn_police.chance"), 1e-9)
	assert.Equal(t, "", s.String("channels.general_id"))
	assert.Empty(t, s.StringSlice("channels.excluded"))
}

func TestSetAndRead(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Set("feature.gn_police.min_minutes", 45)
	require.NoError(t, err)
	assert.Equal(t, 45, s.Int("feature.gn_police.min_minutes"))

	_, err = s.Set("feature.gn_police.enabled", false)
	require.NoError(t, err)
	assert.False(t, s.Bool("feature.gn_police.enabled"))

	_, err = s.Set("channels.general_id", "123456")
	require.NoError(t, err)
	assert.Equal(t, "123456", s.String("channels.general_id"))
}

func TestSetRejectsUnknownKey(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Set("feature.nope.enabled", true)
	assert.Error(t, err)
}

func TestSetRejectsWrongType(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Set("feature.gn_police.enabled", 42)
	assert.Error(t, err)

	_, err = s.Set("feature.gn_police.min_minutes", "lots")
	assert.Error(t, err)
}

func TestChanceKeysClampToUnit(t *testing.T) {
	s, _ := newTestStore(t)

	v, err := s.Set("feature.gn_police.chance", 5.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = s.Set("feature.dead_chat.chance", -0.3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	assert.Equal(t, 1.0, s.Float("feature.gn_police.chance"))
}

func TestSetCoercesJSONNumbers(t *testing.T) {
	s, _ := newTestStore(t)

	// JSON decoding hands ints over as float64
	v, err := s.Set("feature.gn_police.min_minutes", float64(30))
	require.NoError(t, err)
	assert.Equal(t, 30, v)

	v, err = s.Set("feature.gn_police.chance", 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestStringSliceFromAnySlice(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Set("channels.excluded", []any{"111", "222"})
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222"}, s.StringSlice("channels.excluded"))
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := New(path)
	require.NoError(t, err)

	_, err = s.Set("feature.gn_police.min_minutes", 45)
	require.NoError(t, err)
	_, err = s.Set("channels.general_id", "c777")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 45, reopened.Int("feature.gn_police.min_minutes"))
	assert.Equal(t, "c777", reopened.String("channels.general_id"))
}

func TestRegistryLookup(t *testing.T) {
	meta, ok := Lookup("feature.gn_police.chance")
	require.True(t, ok)
	assert.Equal(t, TypeFloat, meta.Type)

	_, ok = Lookup("not.a.key")
	assert.False(t, ok)

	assert.Nil(t, DefaultFor("not.a.key"))
}
