package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/warp-contracts/crowdfunding/src/ledger"
	"github.com/warp-contracts/crowdfunding/src/utils/config"

	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
)

var (
	ErrMissingSubject = errors.New("token has no subject")
	ErrMissingSecret  = errors.New("auth secret is not set")
)

// Issues and verifies HS256 bearer tokens. The subject is the caller identity.
type Authenticator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthenticator(config *config.Config) (self *Authenticator) {
	self = new(Authenticator)
	self.secret = []byte(config.Gateway.AuthSecret)
	self.issuer = config.Gateway.AuthIssuer
	self.ttl = config.Gateway.AuthTokenTTL
	self.now = time.Now
	return
}

func (self *Authenticator) WithClock(now func() time.Time) *Authenticator {
	self.now = now
	return self
}

func (self *Authenticator) Issue(identity string) (token string, err error) {
	if len(self.secret) == 0 {
		return "", ErrMissingSecret
	}

	identity = ledger.CanonicalIdentity(identity)
	if identity == "" {
		return "", ErrMissingSubject
	}

	now := self.now()
	t := jwt.New()
	for k, v := range map[string]interface{}{
		jwt.SubjectKey:    identity,
		jwt.IssuerKey:     self.issuer,
		jwt.IssuedAtKey:   now,
		jwt.NotBeforeKey:  now,
		jwt.ExpirationKey: now.Add(self.ttl),
	} {
		err = t.Set(k, v)
		if err != nil {
			return
		}
	}

	signed, err := jwt.Sign(t, jwa.HS256, self.secret)
	if err != nil {
		return
	}
	return string(signed), nil
}

// Returns the canonical identity the token was issued for
func (self *Authenticator) Verify(token string) (identity string, err error) {
	if len(self.secret) == 0 {
		return "", ErrMissingSecret
	}

	t, err := jwt.Parse([]byte(token), jwt.WithVerify(jwa.HS256, self.secret))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	err = jwt.Validate(t,
		jwt.WithIssuer(self.issuer),
		jwt.WithClock(jwt.ClockFunc(self.now)),
	)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	identity = ledger.CanonicalIdentity(t.Subject())
	if identity == "" {
		return "", ErrMissingSubject
	}
	return
}
