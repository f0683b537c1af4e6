package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nurpe/freight-desk/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrUnknownRole  = errors.New("unknown role")
)

type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	RoleName string `json:"roleName"`
	Agent    string `json:"agent,omitempty"`
	jwt.RegisteredClaims
}

// Parser verifies HS256 access tokens issued by the operations backend.
type Parser struct {
	secret []byte
	parser *jwt.Parser
}

func NewParser(secret string) *Parser {
	return &Parser{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (p *Parser) Parse(token string) (model.Principal, error) {
	claims := &Claims{}
	parsed, err := p.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Principal{}, ErrExpiredToken
		}
		return model.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	role, ok := parseRole(claims.RoleName)
	if !ok {
		return model.Principal{}, fmt.Errorf("%w: %q", ErrUnknownRole, claims.RoleName)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	return model.Principal{
		UserID:   userID,
		Username: claims.Username,
		Role:     role,
		Agent:    strings.TrimSpace(claims.Agent),
	}, nil
}

func parseRole(raw string) (model.Role, bool) {
	switch model.Role(raw) {
	case model.RoleAdmin, model.RoleMainUser, model.RoleFreightAgent, model.RoleCoordinator:
		return model.Role(raw), true
	}
	return "", false
}
