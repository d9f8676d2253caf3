package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDuplicate = errors.New("duplicate")

func TestBaseRegistry(t *testing.T) {
	r := NewBaseRegistry[string, int]("name")
	r.SetValidator(ChainValidators(
		NotEmptyKeyValidator[int](func() error { return assert.AnError }),
		NoDuplicateValidator[string, int](func(key string) error { return &duplicateKey{key} }),
	))

	require.NoError(t, r.Register("b", 2))
	require.NoError(t, r.Register("a", 1))

	err := r.Register("b", 3)
	var dup *duplicateKey
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "b", dup.key)

	assert.ErrorIs(t, r.Register("", 0), assert.AnError)

	assert.Equal(t, []string{"b", "a"}, r.Keys())
	assert.Equal(t, 2, r.Size())
	assert.True(t, r.Has("a"))

	v, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v, "rejected registration must not overwrite")

	_, err = r.GetOrError("zzz")
	assert.Error(t, err)

	var visited []string
	r.ForEach(func(k string, _ int) { visited = append(visited, k) })
	assert.Equal(t, []string{"b", "a"}, visited)

	snap := r.Snapshot()
	snap["c"] = 3
	assert.False(t, r.Has("c"))
}

type duplicateKey struct{ key string }

func (d *duplicateKey) Error() string { return "duplicate " + d.key }

func TestBaseRegistryValidators(t *testing.T) {
	r := NewBaseRegistry[string, int]("type name")
	r.SetValidator(ChainValidators(
		NotEmptyKeyValidator[int](func() error { return errors.New("empty") }),
		NoDuplicateValidator[string, int](func(string) error { return errDuplicate }),
	))

	require.NoError(t, r.Register("shop.Order", 1))
	assert.ErrorIs(t, r.Register("shop.Order", 2), errDuplicate)
	assert.EqualError(t, r.Register("", 3), "empty")

	v, _ := r.Get("shop.Order")
	assert.Equal(t, 1, v)

	_, err := r.GetOrError("shop.Missing")
	assert.EqualError(t, err, "type name 'shop.Missing' is not registered")
}
