package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circdesk/circdesk/internal/core"
)

func Test_HashPassword(t *testing.T) {
	// act
	hashedPassword, err := core.HashPassword("password123")

	// assert
	assert.NoError(t, err)
	assert.NotEmpty(t, hashedPassword)
	assert.NotEqual(t, "password123", hashedPassword)
}

func Test_CheckPasswordHash(t *testing.T) {
	// arrange
	hashedPassword, err := core.HashPassword("password123")
	assert.NoError(t, err)

	// act + assert
	assert.True(t, core.CheckPasswordHash("password123", hashedPassword))
	assert.False(t, core.CheckPasswordHash("wrongpassword", hashedPassword))
}

func Test_CheckPasswordHash_InvalidHash(t *testing.T) {
	assert.False(t, core.CheckPasswordHash("password123", "invalidhash"))
}
