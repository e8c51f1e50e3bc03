package mining

import "sync"

// Roles consulted on privileged entry points.
const (
	RoleOwner       = "owner"
	RoleMinter      = "minter"
	RoleTransferrer = "transferrer"
)

// AccessList is an explicit capability table. Components check it on every
// privileged call instead of inheriting ownership semantics.
type AccessList struct {
	mu    sync.RWMutex
	roles map[string]map[string]bool
}

func NewAccessList(owner string) *AccessList {
	a := &AccessList{roles: make(map[string]map[string]bool)}
	a.roles[RoleOwner] = map[string]bool{owner: true}
	return a
}

// Has reports whether addr holds role.
func (a *AccessList) Has(role, addr string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.roles[role][addr]
}

// Grant gives addr the role. Only an owner may grant.
func (a *AccessList) Grant(caller, role, addr string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.roles[RoleOwner][caller] {
		return ErrUnauthorized
	}
	if a.roles[role] == nil {
		a.roles[role] = make(map[string]bool)
	}
	a.roles[role][addr] = true
	return nil
}

// Revoke removes the role from addr. Only an owner may revoke.
func (a *AccessList) Revoke(caller, role, addr string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.roles[RoleOwner][caller] {
		return ErrUnauthorized
	}
	delete(a.roles[role], addr)
	return nil
}
