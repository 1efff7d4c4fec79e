package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/farmadesk/stockdesk/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	token, err := pkgjwt.Generate("secreto", "vendedor", "vendedor", "stockdesk", 5)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, role, err := pkgjwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "vendedor", username)
	assert.Equal(t, "vendedor", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := pkgjwt.Generate("secreto", "admin", "admin", "stockdesk", 5)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := pkgjwt.Generate("secreto", "admin", "admin", "stockdesk", -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "admin", "admin", "stockdesk", 5)
	assert.Error(t, err)
}
