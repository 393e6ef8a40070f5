// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buivan/libris/internal/platform/sec"
)

/*
TestTokenService_RoundTrip verifies that generated tokens carry the user's
identity back through verification.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := sec.NewTokenService("test-secret", "libris", time.Hour)

	token, err := service.GenerateToken("user-42", "alice", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "libris", claims.Issuer)
	assert.Equal(t, "user-42", claims.Subject)
}

/*
TestTokenService_TamperedSignature verifies that a modified token is rejected.
*/
func TestTokenService_TamperedSignature(t *testing.T) {
	service := sec.NewTokenService("test-secret", "libris", time.Hour)

	token, err := service.GenerateToken("user-42", "alice", false)
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	claims, err := service.VerifyToken(tampered)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

/*
TestTokenService_Expired verifies that an expired token fails verification
with the same opaque outcome as a tampered one.
*/
func TestTokenService_Expired(t *testing.T) {
	service := sec.NewTokenService("test-secret", "libris", -time.Minute)

	token, err := service.GenerateToken("user-42", "alice", false)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

/*
TestTokenService_WrongSecret verifies tokens do not cross service instances
with different secrets.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	issuerA := sec.NewTokenService("secret-a", "libris", time.Hour)
	issuerB := sec.NewTokenService("secret-b", "libris", time.Hour)

	token, err := issuerA.GenerateToken("user-42", "alice", false)
	require.NoError(t, err)

	claims, err := issuerB.VerifyToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

/*
TestPasswordHashing verifies the bcrypt hash/check pair.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
	assert.False(t, sec.CheckPasswordHash("correct horse battery staple", "not-a-hash"))
}

/*
TestGenerateSecureToken verifies length and uniqueness of random tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(16)
	require.NoError(t, err)
	assert.Len(t, first, 32) // hex doubles the byte length

	second, err := sec.GenerateSecureToken(16)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
