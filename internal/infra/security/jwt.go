package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domuser "example.com/storefront/internal/domain/user"
)

// Claims is the session payload the identity provider signs into tokens.
type Claims struct {
	UserID   int64
	RoleCode domuser.RoleCode
	Email    string
	Name     string
}

// JWTService validates the HS256 session tokens issued by the external
// identity provider; it shares only the key convention with it. Generate
// exists for tests and local tooling.
type JWTService struct {
	secret     []byte
	expiration time.Duration
}

func NewJWTService(secret string, expiration time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

type jwtClaims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

var errInvalidToken = errors.New("invalid token")

func (s *JWTService) GenerateToken(u *domuser.User) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		UserID: u.ID,
		Role:   string(u.RoleCode),
		Email:  u.Email,
		Name:   u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ParseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, errInvalidToken
	}

	role, err := domuser.ParseRoleCode(claims.Role)
	if err != nil {
		return nil, err
	}

	return &Claims{
		UserID:   claims.UserID,
		RoleCode: role,
		Email:    claims.Email,
		Name:     claims.Name,
	}, nil
}
