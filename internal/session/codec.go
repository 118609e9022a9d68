package session

import (
	"crypto/sha256"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/oops"
	"golang.org/x/crypto/hkdf"
)

const signingKeyInfo = "pasal storefront session signing key"

// Codec signs session tokens as HS256 JWTs. The HMAC key is derived from the
// configured secret, never the raw secret itself.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("session secret is empty")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(signingKeyInfo)), key); err != nil {
		return nil, oops.Code("SESSION_KEY_FAILED").Wrap(err)
	}
	return &Codec{key: key, ttl: ttl, now: time.Now}, nil
}

func (c *Codec) TTL() time.Duration { return c.ttl }

// Encode signs tok, stamping a session id on first issue and refreshing the
// issued/expiry times.
func (c *Codec) Encode(tok *Token) (string, error) {
	if tok == nil {
		return "", oops.Code("SESSION_SIGN_FAILED").Errorf("nil session token")
	}
	now := c.now()
	claims := *tok
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(c.key)
	if err != nil {
		return "", oops.Code("SESSION_SIGN_FAILED").Wrap(err)
	}
	*tok = claims
	return s, nil
}

// Decode verifies signature and expiry.
func (c *Codec) Decode(s string) (*Token, error) {
	tok := &Token{}
	parsed, err := jwt.ParseWithClaims(s, tok, func(t *jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID").Wrap(err)
	}
	if !parsed.Valid {
		return nil, oops.Code("SESSION_INVALID").Errorf("session token not valid")
	}
	return tok, nil
}
