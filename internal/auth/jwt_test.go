package auth_test

import (
	"testing"
	"time"

	"taskflow/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseToken(t *testing.T) {
	// Arrange
	secret := []byte("test-secret")
	userID := uuid.New().String()

	// Act
	token, err := auth.GenerateToken(userID, secret, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := auth.ParseToken(token, secret)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestParseToken_WrongSecret(t *testing.T) {
	// Arrange
	token, err := auth.GenerateToken(uuid.New().String(), []byte("right-secret"), time.Hour)
	assert.NoError(t, err)

	// Act
	_, err = auth.ParseToken(token, []byte("wrong-secret"))

	// Assert
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	// Arrange
	token, err := auth.GenerateToken(uuid.New().String(), []byte("test-secret"), -time.Hour)
	assert.NoError(t, err)

	// Act
	_, err = auth.ParseToken(token, []byte("test-secret"))

	// Assert
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := auth.ParseToken("not-a-jwt", []byte("test-secret"))
	assert.Error(t, err)
}
