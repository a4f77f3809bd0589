package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardex/internal/core/apperror"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokenService(DefaultTokenConfig("test-secret"))
	user := NewUser("cashier1", "irrelevant-hash")

	token, err := tokens.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "cashier1", claims.Username)
	assert.Equal(t, "kardex", claims.Issuer)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewTokenService(DefaultTokenConfig("secret-a"))
	verifier := NewTokenService(DefaultTokenConfig("secret-b"))

	token, err := issuer.Issue(NewUser("cashier1", "hash"))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestVerify_Expired(t *testing.T) {
	cfg := DefaultTokenConfig("test-secret")
	cfg.TTL = -time.Minute
	tokens := NewTokenService(cfg)

	token, err := tokens.Issue(NewUser("cashier1", "hash"))
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestVerify_Garbage(t *testing.T) {
	tokens := NewTokenService(DefaultTokenConfig("test-secret"))

	_, err := tokens.Verify("not.a.token")
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{name: "valid", creds: Credentials{Username: "alice", Password: "s3cret!"}},
		{name: "short username", creds: Credentials{Username: "ab", Password: "s3cret!"}, wantErr: true},
		{name: "whitespace username", creds: Credentials{Username: "  a  ", Password: "s3cret!"}, wantErr: true},
		{name: "short password", creds: Credentials{Username: "alice", Password: "12345"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantErr {
				assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}
