package services

import (
	"errors"
	"testing"
	"time"

	apperrors "taskboard/internal/errors"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(token string) (*Claims, error)

func (f verifierFunc) Verify(token string) (*Claims, error) { return f(token) }

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer   abc  ", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"bearer abc", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer abc def", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := ExtractBearer(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestIdentityGate_ResolveOwner(t *testing.T) {
	tokens := NewJWTTokenService("secret", "taskboard", time.Hour)
	gate := NewIdentityGate(tokens)
	user := testUser()

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	owner, ok := gate.ResolveOwner(token)
	assert.True(t, ok)
	assert.Equal(t, user.ID, owner)

	owner, ok = gate.Authenticate("Bearer " + token)
	assert.True(t, ok)
	assert.Equal(t, user.ID, owner)

	_, ok = gate.Authenticate(token)
	assert.False(t, ok)

	_, ok = gate.ResolveOwner(token + "x")
	assert.False(t, ok)
}

func TestIdentityGate_NeverPanics(t *testing.T) {
	gate := NewIdentityGate(verifierFunc(func(string) (*Claims, error) {
		panic("verifier exploded")
	}))

	assert.NotPanics(t, func() {
		owner, ok := gate.ResolveOwner("anything")
		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, owner)
	})

	assert.NotPanics(t, func() {
		_, ok := NewIdentityGate(nil).ResolveOwner("anything")
		assert.False(t, ok)
	})
}

func TestIdentityGate_RejectsBadSubject(t *testing.T) {
	cases := map[string]verifierFunc{
		"error":        func(string) (*Claims, error) { return nil, errors.New("bad") },
		"nil claims":   func(string) (*Claims, error) { return nil, nil },
		"non-uuid sub": func(string) (*Claims, error) { return &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "42"}}, nil },
		"nil uuid sub": func(string) (*Claims, error) {
			return &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.Nil.String()}}, nil
		},
	}

	for name, verifier := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := NewIdentityGate(verifier).ResolveOwner("token")
			assert.False(t, ok)
		})
	}
}

func TestOwnershipPolicy_Check(t *testing.T) {
	alice := uuid.Must(uuid.NewV4())
	bob := uuid.Must(uuid.NewV4())

	assert.NoError(t, MaskAsNotFound.Check(alice, alice, "Task not found"))
	assert.NoError(t, RejectForbidden.Check(alice, alice, "User not found"))

	err := MaskAsNotFound.Check(bob, alice, "Task not found")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "Task not found", err.Error())

	err = RejectForbidden.Check(bob, alice, "User not found")
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	err = RejectForbidden.Check(uuid.Nil, uuid.Nil, "User not found")
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}
