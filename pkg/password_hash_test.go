package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("testpass")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("testpass", passwordHash))
	assert.True(t, CheckPasswordHash("testpass", "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i"))
}

func TestCheckPasswordHash_wrongPassword(t *testing.T) {
	passwordHash, err := HashPassword("testpass")
	require.NoError(t, err)
	assert.False(t, CheckPasswordHash("not-testpass", passwordHash))
	assert.False(t, CheckPasswordHash("", passwordHash))
	assert.False(t, CheckPasswordHash("testpass", "not-even-a-hash"))
}
