package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediums(t *testing.T) map[string]Medium {
	t.Helper()
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	return map[string]Medium{
		"file":   f,
		"memory": NewMemory(),
	}
}

func TestMedium_GetAbsent(t *testing.T) {
	for name, m := range mediums(t) {
		t.Run(name, func(t *testing.T) {
			_, err := m.Get("favorites")
			assert.ErrorIs(t, err, ErrNoValue)
		})
	}
}

func TestMedium_PutGetRoundTrip(t *testing.T) {
	for name, m := range mediums(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, m.Put("favorites", []byte(`{"userId":"u1","bookIds":[1,2]}`)))
			got, err := m.Get("favorites")
			require.NoError(t, err)
			assert.Equal(t, `{"userId":"u1","bookIds":[1,2]}`, string(got))
		})
	}
}

func TestMedium_PutOverwritesWholeValue(t *testing.T) {
	for name, m := range mediums(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, m.Put("k", []byte("first, quite a long value")))
			require.NoError(t, m.Put("k", []byte("second")))
			got, err := m.Get("k")
			require.NoError(t, err)
			assert.Equal(t, "second", string(got))
		})
	}
}

func TestMedium_DeleteAbsentIsNoError(t *testing.T) {
	for name, m := range mediums(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, m.Delete("never-written"))
		})
	}
}

func TestMedium_Keys(t *testing.T) {
	for name, m := range mediums(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, m.Put("favorites", []byte("{}")))
			require.NoError(t, m.Put("collections", []byte("[]")))
			require.NoError(t, m.Delete("favorites"))
			keys, err := m.Keys()
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"collections"}, keys)
		})
	}
}

func TestNewFile_EmptyDir(t *testing.T) {
	_, err := NewFile("")
	assert.Error(t, err)
}
