package marketplace

import "strings"

// Identity is the authenticated caller of a marketplace operation.
type Identity struct {
	UID         string
	DisplayName string
}

// NewIdentity derives a display name from the first non-empty of name, email and uid.
func NewIdentity(uid, name, email string) *Identity {
	id := &Identity{UID: strings.TrimSpace(uid)}
	for _, candidate := range []string{name, email, id.UID} {
		if c := strings.TrimSpace(candidate); c != "" {
			id.DisplayName = c
			break
		}
	}
	return id
}

// RequireIdentity fails with unauthenticated when id carries no uid.
func RequireIdentity(id *Identity) error {
	if id == nil || id.UID == "" {
		return newError(KindUnauthenticated, "sign in required")
	}
	return nil
}

func displayNameOr(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
