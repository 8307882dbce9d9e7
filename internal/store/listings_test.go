package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tmakarios/bookden/internal/errs"
	"github.com/tmakarios/bookden/internal/ids"
	"github.com/tmakarios/bookden/internal/kv"
	"github.com/tmakarios/bookden/internal/model"
)

func newListings(m kv.Medium) *ListingStore {
	return NewListings(m, ids.NewCounter(500), zap.NewNop())
}

func TestListingStore_AddAssignsIDAndStatus(t *testing.T) {
	ls := newListings(kv.NewMemory())
	got, err := ls.Add(model.Listing{SellerID: "u1", BookID: 3, Price: 12.5, Currency: "EUR", Condition: model.ConditionGood})
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.ID)
	assert.Equal(t, model.StatusAvailable, got.Status)
}

func TestListingStore_ReplaceAndRemove(t *testing.T) {
	m := kv.NewMemory()
	ls := newListings(m)
	lst, err := ls.Add(model.Listing{SellerID: "u1", BookID: 3, Price: 10, Currency: "EUR", Condition: model.ConditionFair})
	require.NoError(t, err)

	lst.Status = model.StatusSold
	_, err = ls.Replace(lst)
	require.NoError(t, err)

	got, err := ls.Get(lst.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, got.Status)

	require.NoError(t, ls.Remove(lst.ID))
	_, err = ls.Get(lst.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, ls.Remove(lst.ID), errs.ErrNotFound)
}

func TestListingStore_EmbedsAreNotPersisted(t *testing.T) {
	m := kv.NewMemory()
	ls := newListings(m)
	_, err := ls.Add(model.Listing{
		SellerID: "u1", BookID: 3, Price: 10, Currency: "EUR",
		Condition: model.ConditionGood,
		Book:      &model.Book{ID: 3, Title: "stale copy"},
	})
	require.NoError(t, err)

	reopened := newListings(m)
	list := reopened.List()
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Book)
}
