package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modject/pkg/entrypoint"
)

func TestRegistry_Register(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(entrypoint.EntryPoint{Name: "a"}))
	require.NoError(t, r.Register(entrypoint.EntryPoint{Name: "b"}))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"a", "b"}, r.Names())

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_RegisterEmptyName(t *testing.T) {
	r := New()

	err := r.Register(entrypoint.EntryPoint{})
	require.Error(t, err)
	assert.Equal(t, "entry point must have a name", err.Error())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ReplaceKeepsPosition(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(entrypoint.EntryPoint{Name: "a"}))
	require.NoError(t, r.Register(entrypoint.EntryPoint{Name: "b"}))
	require.NoError(t, r.Register(entrypoint.EntryPoint{Name: "a", Layer: "data"}))

	assert.Equal(t, []string{"a", "b"}, r.Names())
	got, _ := r.Get("a")
	assert.Equal(t, "data", got.Layer)

	all := r.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "b", all[1].Name)
}

func TestRegistry_Unregister(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(entrypoint.EntryPoint{Name: "a"}))
	require.NoError(t, r.Register(entrypoint.EntryPoint{Name: "b"}))
	require.NoError(t, r.Register(entrypoint.EntryPoint{Name: "c"}))

	assert.True(t, r.Unregister("b"))
	assert.False(t, r.Unregister("b"))
	assert.Equal(t, []string{"a", "c"}, r.Names())

	names := r.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"a", "c"}, r.Names())
}
