package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SubjectAnonymousSession is the fixed claim type stamped on every token.
// There are no user accounts; possession of a valid token is the session.
const SubjectAnonymousSession = "anonymous_session"

// ErrInvalidToken covers every verification failure: malformed token, bad
// signature, unsupported algorithm, expired claim set.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the decoded payload of a verified session token.
type Claims map[string]interface{}

// JTI returns the unique id minted at issuance, or "" if absent.
func (c Claims) JTI() string {
	if v, ok := c["jti"].(string); ok {
		return v
	}
	return ""
}

// Codec signs and verifies self-contained session tokens. The signing secret
// is fixed for the process lifetime; tokens are stateless and there is no
// revocation list.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec for the given symmetric secret. An empty secret
// is a configuration fault and must abort startup.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("signing secret must not be empty")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Issue mints an HS256-signed token embedding issued-at, expiry and a fresh
// uuid nonce merged over the caller-supplied claims.
func (c *Codec) Issue(extra map[string]interface{}, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["type"] = SubjectAnonymousSession
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()
	claims["jti"] = uuid.NewString()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Verify checks the signature, algorithm and expiry of a token and returns
// the decoded claims. Every failure mode collapses into ErrInvalidToken; the
// underlying cause is preserved for logging via errors.Unwrap.
func (c *Codec) Verify(raw string) (Claims, error) {
	parsed, err := jwt.Parse(raw,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return Claims(mapClaims), nil
}
