package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour

	issuer = "hearth"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by both access and refresh tokens.
// TokenType distinguishes the two so a refresh token cannot be used to
// authenticate an API request.
type Claims struct {
	UserID      int64  `json:"uid"`
	HouseholdID int64  `json:"hid"`
	Role        string `json:"role"`
	TokenType   string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256-signed JWTs.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// IssuePair returns a short-lived access token and a long-lived refresh
// token for the given user.
func (t *TokenService) IssuePair(userID, householdID int64, role string) (access, refresh string, err error) {
	access, err = t.issue(userID, householdID, role, "access", accessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = t.issue(userID, householdID, role, "refresh", refreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (t *TokenService) issue(userID, householdID int64, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:      userID,
		HouseholdID: householdID,
		Role:        role,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAccess validates an access token and returns its claims.
func (t *TokenService) ParseAccess(tokenString string) (*Claims, error) {
	return t.parse(tokenString, "access")
}

// ParseRefresh validates a refresh token and returns its claims.
func (t *TokenService) ParseRefresh(tokenString string) (*Claims, error) {
	return t.parse(tokenString, "refresh")
}

func (t *TokenService) parse(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
