package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Header names carrying impersonation directives on a request.
const (
	HeaderImpersonateID   = "X-Impersonate-Id"
	HeaderImpersonateType = "X-Impersonate-Type"
)

var (
	// ErrInvalidToken is returned for a missing, malformed, or expired JWT
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrMissingClaims is returned when the token lacks subject, tenant, or role
	ErrMissingClaims = errors.New("token missing required claims")
)

// Claims are the JWT claims issued by the identity provider.
type Claims struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Directives are the raw impersonation headers from a request, if present.
type Directives struct {
	TargetID   string
	TargetType string
}

// Empty reports whether no impersonation was requested.
func (d Directives) Empty() bool {
	return d.TargetID == "" && d.TargetType == ""
}

// Resolver derives a RequestContext from bearer tokens and request metadata.
type Resolver struct {
	secret []byte
}

// NewResolver creates a Resolver verifying tokens with the given HMAC secret.
func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

// ParseToken verifies tokenString and extracts its identity claims.
func (r *Resolver) ParseToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.TenantID == "" || claims.Role == "" {
		return nil, ErrMissingClaims
	}
	if !Role(claims.Role).Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrMissingClaims, claims.Role)
	}

	return claims, nil
}

// Resolve combines verified claims with optional impersonation directives.
//
// Directives are honored only when the real role is admin; any other caller's
// directives are silently ignored and the real identity is used, so downstream
// authorization rejects what it would reject anyway. Honored directives with
// an unknown target type are also ignored rather than failing the request.
func (r *Resolver) Resolve(claims *Claims, directives Directives) *RequestContext {
	rc := &RequestContext{
		RealUserID:      claims.Subject,
		TenantID:        claims.TenantID,
		RealRole:        Role(claims.Role),
		EffectiveUserID: claims.Subject,
		EffectiveRole:   Role(claims.Role),
	}

	if directives.Empty() || rc.RealRole != RoleAdmin {
		return rc
	}

	targetType := ImpersonateType(directives.TargetType)
	if directives.TargetID == "" || !targetType.Valid() {
		return rc
	}

	rc.Impersonated = &ImpersonatedEntity{ID: directives.TargetID, Type: targetType}
	rc.EffectiveUserID = directives.TargetID
	rc.EffectiveRole = targetType.Role()

	return rc
}

// ResolveToken is ParseToken followed by Resolve.
func (r *Resolver) ResolveToken(tokenString string, directives Directives) (*RequestContext, error) {
	claims, err := r.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	return r.Resolve(claims, directives), nil
}
