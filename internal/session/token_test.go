package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	issuer := NewTokenIssuer("segredo", time.Hour)

	token, err := issuer.Issue("sessao-1", "agencia-1")
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "sessao-1", claims.Subject)
	assert.Equal(t, "agencia-1", claims.Owner)
}

func TestTokenIssuer_Validate(t *testing.T) {
	issuer := NewTokenIssuer("segredo", time.Hour)

	expiredIssuer := NewTokenIssuer("segredo", time.Minute)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredIssuer.Issue("sessao-1", "agencia-1")
	require.NoError(t, err)

	forged, err := NewTokenIssuer("outro", time.Hour).Issue("sessao-1", "agencia-1")
	require.NoError(t, err)

	emptySubject, err := issuer.Issue("", "agencia-1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "expirado", token: expired, wantErr: ErrExpiredToken},
		{name: "assinatura diferente", token: forged, wantErr: ErrInvalidToken},
		{name: "malformado", token: "abc.def", wantErr: ErrInvalidToken},
		{name: "vazio", token: "", wantErr: ErrInvalidToken},
		{name: "sem sessão", token: emptySubject, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Validate(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
