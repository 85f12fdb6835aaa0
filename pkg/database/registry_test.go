package database

import (
	"testing"

	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RejectsDuplicateNames(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("User", &models.User{}))

	err := r.Register("User", &models.User{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Len(t, r.Models(), 1)
}

func TestRegistry_KeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Image", &models.Image{}))
	require.NoError(t, r.Register("User", &models.User{}))

	assert.Equal(t, []string{"Image", "User"}, r.Names())

	m, ok := r.Lookup("User")
	require.True(t, ok)
	assert.IsType(t, &models.User{}, m)

	_, ok = r.Lookup("Missing")
	assert.False(t, ok)
}

func TestDefaultRegistry_IsBuiltOnce(t *testing.T) {
	first := DefaultRegistry()
	second := DefaultRegistry()

	assert.Same(t, first, second)
	assert.Equal(t, []string{"User", "Image", "Transaction"}, first.Names())
}
