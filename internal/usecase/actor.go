package usecase

// Actor is the authenticated caller as asserted by the access token.
type Actor struct {
	UserID  string
	Role    string
	IsAdmin bool
}

// CanManage reports whether the actor may modify a resource owned by ownerID.
func (a Actor) CanManage(ownerID string) bool {
	return a.IsAdmin || (a.UserID != "" && a.UserID == ownerID)
}

func (a Actor) HasRole(roles ...string) bool {
	if a.IsAdmin {
		return true
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
