package services

import (
	"log"
	"strings"

	"github.com/gofrs/uuid"
)

const bearerPrefix = "Bearer "

// TokenVerifier checks a bearer token's signature and expiry.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// IdentityGate resolves the owner behind a bearer credential.
type IdentityGate struct {
	verifier TokenVerifier
}

func NewIdentityGate(verifier TokenVerifier) *IdentityGate {
	return &IdentityGate{verifier: verifier}
}

// ExtractBearer returns the token of a "Bearer <token>" header value.
func ExtractBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// ResolveOwner returns the user id a valid token was issued to. Any failure,
// including a panicking verifier, yields ok == false.
func (g *IdentityGate) ResolveOwner(token string) (owner uuid.UUID, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[identity] token verification panicked: %v", r)
			owner, ok = uuid.Nil, false
		}
	}()

	if g.verifier == nil || token == "" {
		return uuid.Nil, false
	}

	claims, err := g.verifier.Verify(token)
	if err != nil || claims == nil {
		return uuid.Nil, false
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// Authenticate combines ExtractBearer and ResolveOwner for an Authorization
// header value.
func (g *IdentityGate) Authenticate(header string) (uuid.UUID, bool) {
	token, ok := ExtractBearer(header)
	if !ok {
		return uuid.Nil, false
	}
	return g.ResolveOwner(token)
}
