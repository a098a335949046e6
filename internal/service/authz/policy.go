// Package authz holds the authorization policy: a pure, total decision
// function over (caller identity, resource owner, operation). It has no
// dependencies on transport or storage and is independently testable.
package authz

import "github.com/taskboard/taskboard-api/internal/domain"

// Operation names an action a caller may request on a resource.
type Operation string

const (
	OpReadTask     Operation = "task:read"
	OpCreateTask   Operation = "task:create"
	OpUpdateTask   Operation = "task:update"
	OpDeleteTask   Operation = "task:delete"
	OpReassignTask Operation = "task:reassign"
	OpListUsers    Operation = "user:list"
)

// scope bounds which resources a capability covers.
type scope int

const (
	scopeNone scope = iota // capability absent
	scopeOwn               // only resources owned by the caller
	scopeAny               // every resource
)

// roleCapabilities is the policy table. A new role extends the table without
// touching any call site.
var roleCapabilities = map[domain.Role]map[Operation]scope{
	domain.RoleUser: {
		OpReadTask:   scopeOwn,
		OpCreateTask: scopeOwn,
		OpUpdateTask: scopeOwn,
		OpDeleteTask: scopeOwn,
	},
	domain.RoleAdmin: {
		OpReadTask:     scopeAny,
		OpCreateTask:   scopeAny,
		OpUpdateTask:   scopeAny,
		OpDeleteTask:   scopeAny,
		OpReassignTask: scopeAny,
		OpListUsers:    scopeAny,
	},
}

// CanActOn decides whether the caller may perform op on a resource owned by
// resourceOwnerID. Total and side-effect free: any unknown role or operation
// denies.
func CanActOn(caller domain.Identity, resourceOwnerID int64, op Operation) bool {
	caps, ok := roleCapabilities[caller.Role]
	if !ok {
		return false
	}

	switch caps[op] {
	case scopeAny:
		return true
	case scopeOwn:
		return caller.ID == resourceOwnerID
	default:
		return false
	}
}
