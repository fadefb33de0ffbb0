package auth

import (
	"testing"
	"time"

	"github.com/warp-contracts/crowdfunding/src/utils/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthenticator(secret string) *Authenticator {
	c := config.Default()
	c.Gateway.AuthSecret = secret
	c.Gateway.AuthTokenTTL = time.Hour
	return NewAuthenticator(c)
}

func TestIssueVerify(t *testing.T) {
	a := newAuthenticator("secret")

	token, err := a.Issue("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)

	identity, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", identity)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := newAuthenticator("secret").Issue("alice")
	require.NoError(t, err)

	_, err = newAuthenticator("other").Verify(token)
	require.Error(t, err)
}

func TestVerifyExpired(t *testing.T) {
	now := time.Now()
	a := newAuthenticator("secret").WithClock(func() time.Time { return now })

	token, err := a.Issue("alice")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = a.Verify(token)
	require.Error(t, err)
}

func TestVerifyWrongIssuer(t *testing.T) {
	token, err := newAuthenticator("secret").Issue("alice")
	require.NoError(t, err)

	other := newAuthenticator("secret")
	other.issuer = "someone-else"
	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestIssueRequiresSubject(t *testing.T) {
	_, err := newAuthenticator("secret").Issue("  ")
	require.ErrorIs(t, err, ErrMissingSubject)

	_, err = newAuthenticator("").Issue("alice")
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = newAuthenticator("secret").Verify("garbage")
	require.Error(t, err)
}
