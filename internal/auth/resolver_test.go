package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func identityClaims(userID, tenantID string, role Role) Claims {
	return Claims{
		TenantID: tenantID,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestParseToken(t *testing.T) {
	resolver := NewResolver(testSecret)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:  "valid token",
			token: signToken(t, identityClaims("u1", "t1", RoleStaff)),
		},
		{
			name:    "garbage token",
			token:   "not-a-jwt",
			wantErr: ErrInvalidToken,
		},
		{
			name: "expired token",
			token: signToken(t, Claims{
				TenantID: "t1",
				Role:     "staff",
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "u1",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				},
			}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "missing tenant claim",
			token:   signToken(t, identityClaims("u1", "", RoleStaff)),
			wantErr: ErrMissingClaims,
		},
		{
			name:    "unknown role claim",
			token:   signToken(t, identityClaims("u1", "t1", Role("superuser"))),
			wantErr: ErrMissingClaims,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := resolver.ParseToken(tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", claims.Subject)
			assert.Equal(t, "t1", claims.TenantID)
		})
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	other := NewResolver("some-other-secret")
	token := signToken(t, identityClaims("u1", "t1", RoleAdmin))

	_, err := other.ParseToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveImpersonation(t *testing.T) {
	resolver := NewResolver(testSecret)

	tests := []struct {
		name          string
		role          Role
		directives    Directives
		wantOverlay   bool
		wantEffective string
		wantEffRole   Role
	}{
		{
			name:          "admin viewing as worker",
			role:          RoleAdmin,
			directives:    Directives{TargetID: "w9", TargetType: "worker"},
			wantOverlay:   true,
			wantEffective: "w9",
			wantEffRole:   RoleWorker,
		},
		{
			name:          "admin viewing as customer",
			role:          RoleAdmin,
			directives:    Directives{TargetID: "cust3", TargetType: "customer"},
			wantOverlay:   true,
			wantEffective: "cust3",
			wantEffRole:   RoleCustomer,
		},
		{
			name:          "staff directives silently ignored",
			role:          RoleStaff,
			directives:    Directives{TargetID: "w9", TargetType: "worker"},
			wantEffective: "u1",
			wantEffRole:   RoleStaff,
		},
		{
			name:          "worker directives silently ignored",
			role:          RoleWorker,
			directives:    Directives{TargetID: "w9", TargetType: "worker"},
			wantEffective: "u1",
			wantEffRole:   RoleWorker,
		},
		{
			name:          "admin with unknown target type falls back to real identity",
			role:          RoleAdmin,
			directives:    Directives{TargetID: "x", TargetType: "supplier"},
			wantEffective: "u1",
			wantEffRole:   RoleAdmin,
		},
		{
			name:          "admin with type but no id falls back to real identity",
			role:          RoleAdmin,
			directives:    Directives{TargetType: "worker"},
			wantEffective: "u1",
			wantEffRole:   RoleAdmin,
		},
		{
			name:          "no directives",
			role:          RoleAdmin,
			wantEffective: "u1",
			wantEffRole:   RoleAdmin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := identityClaims("u1", "t1", tt.role)
			rc := resolver.Resolve(&claims, tt.directives)

			// The real principal is never rewritten by impersonation.
			assert.Equal(t, "u1", rc.RealUserID)
			assert.Equal(t, "t1", rc.TenantID)
			assert.Equal(t, tt.role, rc.RealRole)

			assert.Equal(t, tt.wantEffective, rc.EffectiveUserID)
			assert.Equal(t, tt.wantEffRole, rc.EffectiveRole)
			assert.Equal(t, tt.wantOverlay, rc.Impersonating())

			if tt.wantOverlay {
				require.NotNil(t, rc.Impersonated)
				assert.Equal(t, tt.directives.TargetID, rc.Impersonated.ID)
			}
		})
	}
}

func TestRequestContextRoundTrip(t *testing.T) {
	rc := &RequestContext{
		RealUserID:      "u1",
		TenantID:        "t1",
		RealRole:        RoleAdmin,
		EffectiveUserID: "w2",
		EffectiveRole:   RoleWorker,
		Impersonated:    &ImpersonatedEntity{ID: "w2", Type: ImpersonateWorker},
	}

	ctx := WithRequestContext(context.Background(), rc)
	assert.Equal(t, rc, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}

func TestRoleCanMutate(t *testing.T) {
	assert.True(t, RoleAdmin.CanMutate())
	assert.True(t, RoleStaff.CanMutate())
	assert.False(t, RoleWorker.CanMutate())
	assert.False(t, RoleContractor.CanMutate())
	assert.False(t, RoleCustomer.CanMutate())
}
