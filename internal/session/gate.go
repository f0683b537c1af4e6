// Package session decides where the front-end should route a user based on
// the role claim of the credential it holds.
//
// Nothing here verifies signatures. The decision is a navigation hint for the
// single-page application and must never guard data or state changes; those
// go through the verified parser in internal/auth and the backend's own checks.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type Redirect string

const (
	RedirectLogin        Redirect = "login"
	RedirectUnauthorized Redirect = "unauthorized"
)

type Decision struct {
	OK       bool     `json:"ok"`
	Redirect Redirect `json:"redirect,omitempty"`
}

var ErrUndecodable = errors.New("credential is not decodable")

var (
	allow          = Decision{OK: true}
	toLogin        = Decision{OK: false, Redirect: RedirectLogin}
	toUnauthorized = Decision{OK: false, Redirect: RedirectUnauthorized}
)

// Claims is the part of a credential the gate reads.
type Claims struct {
	RoleName string `json:"roleName"`
	Username string `json:"username,omitempty"`
}

// Decoder turns an opaque credential into claims.
type Decoder interface {
	Decode(token string) (Claims, error)
}

type jwtClaims struct {
	Claims
	jwt.RegisteredClaims
}

// JWTDecoder reads JWT claims without checking the signature or expiry.
type JWTDecoder struct {
	parser *jwt.Parser
}

func NewJWTDecoder() *JWTDecoder {
	return &JWTDecoder{parser: jwt.NewParser()}
}

func (d *JWTDecoder) Decode(token string) (Claims, error) {
	var claims jwtClaims
	if _, _, err := d.parser.ParseUnverified(token, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return claims.Claims, nil
}

type Gate struct {
	decoder Decoder
}

func NewGate(decoder Decoder) *Gate {
	if decoder == nil {
		decoder = NewJWTDecoder()
	}
	return &Gate{decoder: decoder}
}

// Authorize returns the routing decision for token against allowedRoles.
// Missing and undecodable credentials both send the user to login.
func (g *Gate) Authorize(token string, allowedRoles []string) Decision {
	token = strings.TrimSpace(token)
	if token == "" {
		return toLogin
	}
	claims, err := g.decode(token)
	if err != nil {
		return toLogin
	}
	if !slices.Contains(allowedRoles, claims.RoleName) {
		return toUnauthorized
	}
	return allow
}

// AuthorizeContext is Authorize over an explicit session context.
func (g *Gate) AuthorizeContext(sc Context, allowedRoles []string) Decision {
	return g.Authorize(sc.Token, allowedRoles)
}

// Role reads the role claim, or "" when the token is missing or undecodable.
func (g *Gate) Role(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	claims, err := g.decode(token)
	if err != nil {
		return ""
	}
	return claims.RoleName
}

func (g *Gate) decode(token string) (claims Claims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims, err = Claims{}, fmt.Errorf("%w: decoder panic: %v", ErrUndecodable, r)
		}
	}()
	return g.decoder.Decode(token)
}
