// Package auth holds the credential and access-control core of the service:
// signing and verifying bearer credentials, minting them for users, turning a
// presented credential into a Principal, and deciding whether that Principal
// may act on a target user.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/thejerf/abtime"

	"github.com/99minutos/user-service/internal/core/domain"
)

var (
	// ErrConfig means the codec has no signing secret. It is fatal at startup.
	ErrConfig = errors.New("auth: signing secret is not configured")

	// ErrCredentialExpired is returned by Verify for a well-signed credential
	// whose expiry has passed. It matches domain.ErrInvalidCredential.
	ErrCredentialExpired = fmt.Errorf("%w: expired", domain.ErrInvalidCredential)
)

// Claims is the logical content of a credential.
type Claims struct {
	SubjectID int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// credentialClaims is the JWT wire form of Claims.
type credentialClaims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 credentials with a process-wide secret.
type Codec struct {
	secret []byte
	clock  abtime.AbstractTime
}

// NewCodec returns a Codec for secret. A nil clock means wall-clock time.
func NewCodec(secret []byte, clock abtime.AbstractTime) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrConfig
	}
	if clock == nil {
		clock = abtime.NewRealTime()
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Codec{secret: key, clock: clock}, nil
}

// Now returns the codec's notion of the current time.
func (c *Codec) Now() time.Time {
	return c.clock.Now()
}

// Sign encodes claims as a signed credential. Every call carries a fresh
// token id, so two credentials for the same claims never compare equal.
func (c *Codec) Sign(claims Claims) (string, error) {
	if c == nil || len(c.secret) == 0 {
		return "", ErrConfig
	}

	issuedAt := claims.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = c.clock.Now()
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, credentialClaims{
		UserID: claims.SubjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(claims.SubjectID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})

	signed, err := tkn.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, structure and freshness of token. Every
// failure matches domain.ErrInvalidCredential; expiry additionally matches
// ErrCredentialExpired.
func (c *Codec) Verify(token string) (Claims, error) {
	if c == nil || len(c.secret) == 0 {
		return Claims{}, ErrConfig
	}

	var cc credentialClaims
	parsed, err := jwt.ParseWithClaims(token, &cc, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrCredentialExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	if !parsed.Valid {
		return Claims{}, domain.ErrInvalidCredential
	}

	// Subject and userId are written together; a mismatch means the token
	// was not produced by Sign.
	if cc.Subject != strconv.FormatInt(cc.UserID, 10) {
		return Claims{}, fmt.Errorf("%w: subject mismatch", domain.ErrInvalidCredential)
	}

	out := Claims{
		SubjectID: cc.UserID,
		ExpiresAt: cc.ExpiresAt.Time,
	}
	if cc.IssuedAt != nil {
		out.IssuedAt = cc.IssuedAt.Time
	}
	return out, nil
}
