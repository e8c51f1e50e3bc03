package mining

import "sync"

// AssetRegistry is the ownership/approval source of truth for stakeable
// drills. Mines take custody through it and hand assets back on unstake.
type AssetRegistry interface {
	OwnerOf(id uint64) (string, error)
	GetApproved(id uint64) (string, error)
	Approve(caller, to string, id uint64) error
	TransferFrom(caller, from, to string, id uint64) error
}

// DrillRegistry is an in-process AssetRegistry. Minting is gated by the
// minter role (the catalog holds it).
type DrillRegistry struct {
	acl *AccessList

	mu        sync.RWMutex
	owners    map[uint64]string
	approvals map[uint64]string
}

func NewDrillRegistry(owner string) *DrillRegistry {
	return &DrillRegistry{
		acl:       NewAccessList(owner),
		owners:    make(map[uint64]string),
		approvals: make(map[uint64]string),
	}
}

func (r *DrillRegistry) Access() *AccessList { return r.acl }

// Mint assigns a fresh asset id to an owner. Caller needs the minter role.
func (r *DrillRegistry) Mint(caller, to string, id uint64) error {
	if !r.acl.Has(RoleMinter, caller) && !r.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[id]; ok {
		return ErrAlreadyExists
	}
	r.owners[id] = to
	return nil
}

func (r *DrillRegistry) OwnerOf(id uint64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[id]
	if !ok {
		return "", ErrNotFound
	}
	return owner, nil
}

func (r *DrillRegistry) GetApproved(id uint64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.owners[id]; !ok {
		return "", ErrNotFound
	}
	return r.approvals[id], nil
}

// Approve grants to the right to transfer the asset. Only the current owner
// may approve.
func (r *DrillRegistry) Approve(caller, to string, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[id]
	if !ok {
		return ErrNotFound
	}
	if owner != caller {
		return ErrNotOwner
	}
	r.approvals[id] = to
	return nil
}

// TransferFrom moves the asset from its owner to another address. The caller
// must be the owner or the approved address. Approval is cleared on transfer.
func (r *DrillRegistry) TransferFrom(caller, from, to string, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[id]
	if !ok {
		return ErrNotFound
	}
	if owner != from {
		return ErrNotOwner
	}
	if caller != owner && r.approvals[id] != caller {
		return ErrNotApproved
	}
	r.owners[id] = to
	delete(r.approvals, id)
	return nil
}
