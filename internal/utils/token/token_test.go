package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("   ")
	assert.Error(t, err)
}

func TestGenerateValidateRoundtrip(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	signed, err := issuer.Generate("user-123")
	require.NoError(t, err)

	data, err := issuer.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", data.Sub)
	assert.Positive(t, data.Exp)
}

func TestValidateStripsBearerPrefix(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	signed, err := issuer.Generate("user-123")
	require.NoError(t, err)

	data, err := issuer.Validate("Bearer " + signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", data.Sub)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)
	other, err := NewIssuer("another-secret")
	require.NoError(t, err)

	signed, err := other.Generate("user-123")
	require.NoError(t, err)

	_, err = issuer.Validate(signed)
	assert.Error(t, err)
}
