package identity

import (
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Verifier extracts the user id from an access token issued by the identity
// collaborator. Tokens are HS256-signed JWTs whose subject is the user id.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for tokens signed with secret.
// An empty secret disables signature verification (parse-only); that mode is
// for local development against unsigned fixtures only.
func NewVerifier(secret string) *Verifier {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &Verifier{secret: key}
}

// UserID parses the token and returns its subject claim.
func (v *Verifier) UserID(token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}

	var (
		parsed jwt.Token
		err    error
	)
	if v.secret != nil {
		parsed, err = jwt.Parse([]byte(token), jwt.WithKey(jwa.HS256, v.secret), jwt.WithValidate(true))
	} else {
		parsed, err = jwt.Parse([]byte(token), jwt.WithVerify(false), jwt.WithValidate(true))
	}
	if err != nil {
		return "", fmt.Errorf("parse access token: %w", err)
	}

	sub := parsed.Subject()
	if sub == "" {
		return "", fmt.Errorf("access token missing subject claim")
	}
	return sub, nil
}
