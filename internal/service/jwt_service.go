package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrJWTInvalid cubre cualquier token rechazado: formato, firma, algoritmo o expiración.
var ErrJWTInvalid = errors.New("jwt invalid")

const defaultAccessTTL = 60 * time.Minute

// Claims es el payload fijo de los access tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService emite y valida tokens JWT.
type JWTService struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type JWTOption func(*JWTService)

// WithClock reemplaza el reloj usado para emitir y validar.
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIssuer fija el claim iss; los tokens con otro emisor se rechazan.
func WithIssuer(issuer string) JWTOption {
	return func(s *JWTService) {
		s.issuer = strings.TrimSpace(issuer)
	}
}

func NewJWTService(secret, algorithm string, accessTTL time.Duration, opts ...JWTOption) (*JWTService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	method, ok := jwt.GetSigningMethod(strings.ToUpper(strings.TrimSpace(algorithm))).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("jwt algorithm %q is not supported", algorithm)
	}
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	svc := &JWTService{
		secret: []byte(secret),
		method: method,
		ttl:    accessTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Issue firma un token para subject; ttl <= 0 usa la vida configurada.
func (s *JWTService) Issue(subject string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("jwt subject is required")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.secret)
}

// Validate devuelve el subject del token o ErrJWTInvalid, sin distinguir la causa.
func (s *JWTService) Validate(tokenString string) (string, error) {
	if strings.TrimSpace(tokenString) == "" {
		return "", ErrJWTInvalid
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	var claims Claims
	_, err := jwt.NewParser(parserOpts...).ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", ErrJWTInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrJWTInvalid
	}
	return claims.Subject, nil
}
