package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("secreto-de-prueba", time.Hour)

	token, err := m.Issue("maria", "usuario", "Maria Perez")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "usuario", claims.Role)
	assert.Equal(t, "Maria Perez", claims.Name)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := NewManager("secreto-uno", time.Hour)
	other := NewManager("secreto-dos", time.Hour)

	token, err := m.Issue("maria", "usuario", "Maria")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewManager("secreto", -time.Minute)

	token, err := m.Issue("maria", "usuario", "Maria")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("secreto", time.Hour)

	_, err := m.Verify("no-es-un-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
