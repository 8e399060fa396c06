package cart

// OwnerKind tags an Owner as an identified user or the anonymous guest.
type OwnerKind int

const (
	OwnerGuest OwnerKind = iota
	OwnerUser
)

// Owner names the cart an operation targets.
type Owner struct {
	Kind   OwnerKind
	UserID int64
}

func (o Owner) IsGuest() bool { return o.Kind == OwnerGuest }

// resolveOwner picks the target cart: an explicit id always wins, then the
// session-derived id, then guest. An explicit non-positive id deliberately
// forces the guest cart, so logout flows can address it while a session still
// exists. Resolved fresh on every operation, never cached as a mode flag.
func resolveOwner(explicit, sessionID *int64) Owner {
	if explicit != nil {
		if *explicit > 0 {
			return Owner{Kind: OwnerUser, UserID: *explicit}
		}
		return Owner{Kind: OwnerGuest}
	}
	if sessionID != nil && *sessionID > 0 {
		return Owner{Kind: OwnerUser, UserID: *sessionID}
	}
	return Owner{Kind: OwnerGuest}
}
