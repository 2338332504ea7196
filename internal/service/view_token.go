package service

import (
	"errors"
	"strings"
	"time"

	"github.com/lightbike-next/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// ViewClaims 视图令牌声明
type ViewClaims struct {
	ViewID string `json:"view_id"`
	jwt.RegisteredClaims
}

// ViewTokenService 视图令牌签发与校验（HS256）
type ViewTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewViewTokenService 创建视图令牌服务
func NewViewTokenService(cfg config.ViewConfig) *ViewTokenService {
	return &ViewTokenService{
		secret: []byte(cfg.TokenSecret),
		ttl:    cfg.TTL(),
		now:    time.Now,
	}
}

// Issue 为视图签发令牌
func (s *ViewTokenService) Issue(viewID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := ViewClaims{
		ViewID: viewID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   viewID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse 校验令牌并返回视图 ID
func (s *ViewTokenService) Parse(tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", ErrViewTokenInvalid
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenString, &ViewClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", errors.Join(ErrViewTokenInvalid, err)
	}
	claims, ok := token.Claims.(*ViewClaims)
	if !ok || !token.Valid || strings.TrimSpace(claims.ViewID) == "" {
		return "", ErrViewTokenInvalid
	}
	return claims.ViewID, nil
}
