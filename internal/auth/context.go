package auth

import "context"

// Role is the coarse access level carried by the authenticated principal.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RoleWorker     Role = "worker"
	RoleContractor Role = "contractor"
	RoleCustomer   Role = "customer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleWorker, RoleContractor, RoleCustomer:
		return true
	}
	return false
}

// CanMutate reports whether the role may issue board and record mutations.
func (r Role) CanMutate() bool {
	return r == RoleAdmin || r == RoleStaff
}

// ImpersonateType is the kind of entity an admin can view the system as.
type ImpersonateType string

const (
	ImpersonateWorker     ImpersonateType = "worker"
	ImpersonateContractor ImpersonateType = "contractor"
	ImpersonateCustomer   ImpersonateType = "customer"
)

// Valid reports whether t is a supported impersonation target type.
func (t ImpersonateType) Valid() bool {
	switch t {
	case ImpersonateWorker, ImpersonateContractor, ImpersonateCustomer:
		return true
	}
	return false
}

// Role returns the effective role granted while viewing as this entity type.
func (t ImpersonateType) Role() Role {
	return Role(t)
}

// ImpersonatedEntity identifies the entity an admin is currently viewing as.
type ImpersonatedEntity struct {
	ID   string          `json:"id"`
	Type ImpersonateType `json:"type"`
}

// RequestContext is the authoritative identity for one request. The real
// principal is always kept alongside the effective one: authorization and
// audit use the real identity, data scoping uses the effective identity.
// It is a pure per-request derivation with no persisted state.
type RequestContext struct {
	RealUserID string
	TenantID   string
	RealRole   Role

	EffectiveUserID string
	EffectiveRole   Role

	Impersonated *ImpersonatedEntity
}

// Impersonating reports whether an impersonation overlay is active.
func (rc *RequestContext) Impersonating() bool {
	return rc.Impersonated != nil
}

type requestContextKey struct{}

// WithRequestContext attaches rc to ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// FromContext returns the RequestContext attached to ctx, or nil.
func FromContext(ctx context.Context) *RequestContext {
	rc, ok := ctx.Value(requestContextKey{}).(*RequestContext)
	if !ok {
		return nil
	}
	return rc
}
