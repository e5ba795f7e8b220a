// Package sessiontoken issues and verifies the HS256 session tokens handed
// to the SPA after login.
package sessiontoken

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	apperrors "github.com/ibmec/pict-api/internal/errors"
)

// Options configures a Service.
type Options struct {
	Secret string
	TTL    time.Duration
	Issuer string
	// Now overrides the clock; nil uses time.Now.
	Now func() time.Time
}

// Service signs and verifies session tokens.
type Service struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// New validates opts and returns a Service.
func New(opts Options) (*Service, error) {
	if strings.TrimSpace(opts.Secret) == "" {
		return nil, errors.New("session secret is required")
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		key:    []byte(opts.Secret),
		ttl:    opts.TTL,
		issuer: opts.Issuer,
		now:    opts.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject that expires TTL from now.
func (s *Service) Issue(subject domainauth.Subject) (string, error) {
	if subject == nil || !subject.Role().Valid() {
		return "", apperrors.Internal("cannot issue a token without a known role")
	}
	now := s.now()
	claims := ClaimsFromSubject(subject)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject.Base().Email,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to sign session token")
	}
	return signed, nil
}

// Parse verifies signature and expiry and decodes the token into a subject.
// Every failure is reported as an Unauthorized AppError.
func (s *Service) Parse(token string) (domainauth.Subject, error) {
	claims, err := s.ParseClaims(token)
	if err != nil {
		return nil, err
	}
	subject, ok := claims.Subject()
	if !ok {
		return nil, apperrors.Unauthorized("invalid token claims")
	}
	return subject, nil
}

// ParseClaims verifies token and returns its wire claims.
func (s *Service) ParseClaims(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "token has expired")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Email == "" {
		return nil, apperrors.Unauthorized("invalid token")
	}
	return claims, nil
}
