package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTTL = time.Hour

var (
	ErrTokenInvalid = errors.New("invalid or expired token")
	ErrConfig       = errors.New("token service misconfigured")
)

// TokenClaims is the identity snapshot carried by an access token. It is
// taken at issuance and never refreshed.
type TokenClaims struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	IssuedAt    time.Time `json:"iat"`
	ExpiresAt   time.Time `json:"exp"`
}

type accessClaims struct {
	UserID      uint     `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Issue signs claims with HS256. IssuedAt defaults to now and ExpiresAt is
// always IssuedAt+ttl.
func Issue(claims TokenClaims, secret []byte, ttl time.Duration) (string, error) {
	tok, _, err := issue(claims, secret, ttl, time.Now())
	return tok, err
}

func issue(claims TokenClaims, secret []byte, ttl time.Duration, now time.Time) (string, TokenClaims, error) {
	if len(secret) == 0 {
		return "", TokenClaims{}, fmt.Errorf("%w: empty signing secret", ErrConfig)
	}
	if claims.IssuedAt.IsZero() {
		claims.IssuedAt = now
	}
	// NumericDate keeps whole seconds; report the same instants the token carries
	claims.IssuedAt = claims.IssuedAt.Truncate(time.Second)
	claims.ExpiresAt = claims.IssuedAt.Add(ttl).Truncate(time.Second)
	if claims.Permissions == nil {
		claims.Permissions = []string{}
	}

	ac := accessClaims{
		UserID:      claims.ID,
		Username:    claims.Username,
		Role:        claims.Role,
		Permissions: claims.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(claims.ID), 10),
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, ac).SignedString(secret)
	if err != nil {
		return "", TokenClaims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks signature, algorithm and expiry with no leeway. Every failure
// matches ErrTokenInvalid.
func Verify(token string, secret []byte) (*TokenClaims, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty signing secret", ErrConfig)
	}

	var ac accessClaims
	tkn, err := jwt.ParseWithClaims(token, &ac, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}

	perms := ac.Permissions
	if perms == nil {
		perms = []string{}
	}
	out := &TokenClaims{
		ID:          ac.UserID,
		Username:    ac.Username,
		Role:        ac.Role,
		Permissions: perms,
		ExpiresAt:   ac.ExpiresAt.Time,
	}
	if ac.IssuedAt != nil {
		out.IssuedAt = ac.IssuedAt.Time
	}
	return out, nil
}

// Service binds the process wide secret and lifetime.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret []byte, ttl time.Duration) (*Service, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty signing secret", ErrConfig)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *Service) TTL() time.Duration { return s.ttl }

// Issue returns the signed token and the claims as stamped into it.
func (s *Service) Issue(claims TokenClaims) (string, TokenClaims, error) {
	claims.IssuedAt = time.Time{}
	return issue(claims, s.secret, s.ttl, s.now())
}

func (s *Service) Verify(token string) (*TokenClaims, error) {
	return Verify(token, s.secret)
}
