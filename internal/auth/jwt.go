package auth

import (
	"errors"
	"time"

	"api_ventas/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleSeller is the only role allowed to record and query sales.
const RoleSeller = "seller"

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Claims carries the authenticated seller identity injected by the
// authentication collaborator.
type Claims struct {
	jwt.RegisteredClaims
	SellerID string `json:"seller_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// TokenService validates (and, for tests and operators, signs) bearer tokens.
type TokenService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
}

// NewTokenService creates a TokenService from JWT configuration.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		expiration: cfg.Expiration,
	}
}

// Generate signs a token for the given seller.
func (s *TokenService) Generate(sellerID uuid.UUID, name, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   sellerID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SellerID: sellerID.String(),
		Name:     name,
		Role:     role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate parses and verifies a bearer token, returning its claims.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.SellerID == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// SellerUUID returns the seller identifier as a uuid.
func (c *Claims) SellerUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.SellerID)
	if err != nil {
		return uuid.Nil, ErrInvalidClaims
	}
	return id, nil
}
