package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tmakarios/bookden/internal/errs"
	"github.com/tmakarios/bookden/internal/kv"
	"github.com/tmakarios/bookden/internal/model"
)

func setSlot(m kv.Medium) *Slot[model.BookSet] {
	return NewSlot(m, KeyFavorites,
		func() model.BookSet { return model.BookSet{UserID: "u1", BookIDs: []int64{}} },
		func(s model.BookSet) bool { return s.BookIDs != nil },
		zap.NewNop(),
	)
}

func TestSlot_LoadAbsentSeedsSilently(t *testing.T) {
	s := setSlot(kv.NewMemory())
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Empty(t, got.BookIDs)
}

func TestSlot_RoundTrip(t *testing.T) {
	m := kv.NewMemory()
	s := setSlot(m)
	want := model.BookSet{UserID: "u1", BookIDs: []int64{3, 1, 7}}
	require.NoError(t, s.Persist(want))

	got, err := setSlot(m).Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSlot_LoadMalformedRecovers(t *testing.T) {
	m := kv.NewMemory()
	require.NoError(t, m.Put(KeyFavorites, []byte(`{"userId": "u1", "bookIds": `)))

	got, err := setSlot(m).Load()
	assert.ErrorIs(t, err, errs.ErrCorruptRecord)
	assert.Equal(t, "u1", got.UserID) // seed, still usable
	assert.Empty(t, got.BookIDs)
}

func TestSlot_LoadWrongShapeRecovers(t *testing.T) {
	m := kv.NewMemory()
	// valid JSON, but bookIds is not a sequence
	require.NoError(t, m.Put(KeyFavorites, []byte(`{"userId":"u1","bookIds":17}`)))

	got, err := setSlot(m).Load()
	assert.ErrorIs(t, err, errs.ErrCorruptRecord)
	assert.Empty(t, got.BookIDs)
}

func TestSlot_LoadMissingFieldFailsShapeCheck(t *testing.T) {
	m := kv.NewMemory()
	require.NoError(t, m.Put(KeyFavorites, []byte(`{"userId":"u1"}`)))

	got, err := setSlot(m).Load()
	assert.ErrorIs(t, err, errs.ErrCorruptRecord)
	assert.NotNil(t, got.BookIDs)
}

type failingMedium struct {
	*kv.Memory
	putErr error
}

func (f *failingMedium) Put(key string, value []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.Memory.Put(key, value)
}

func TestSlot_PersistFailureIsReturned(t *testing.T) {
	quota := errors.New("quota exceeded")
	s := setSlot(&failingMedium{Memory: kv.NewMemory(), putErr: quota})
	err := s.Persist(model.BookSet{UserID: "u1", BookIDs: []int64{1}})
	assert.ErrorIs(t, err, quota)
}
