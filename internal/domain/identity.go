package domain

// Identity is the resolved caller: either an authenticated owner or
// Guest. The zero value is Guest, so an unresolved credential can never
// leak a partition.
type Identity struct {
	ownerID string
}

// Guest is the sentinel identity for unauthenticated callers.
var Guest = Identity{}

func AuthenticatedIdentity(ownerID string) Identity {
	return Identity{ownerID: ownerID}
}

func (i Identity) IsGuest() bool { return i.ownerID == "" }

// OwnerID returns the owning identity and whether the caller is
// authenticated. Consumers must branch on the second return instead of
// comparing against an empty string.
func (i Identity) OwnerID() (string, bool) {
	return i.ownerID, i.ownerID != ""
}
