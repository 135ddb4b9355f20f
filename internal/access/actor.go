package access

// Target describes the row an action is aimed at, enough to evaluate a Scope.
type Target struct {
	OwnerID      int
	InstructorID int
	Closed       bool
}

// Actor is the authenticated caller together with the grants it holds on the
// resource of the current request.
type Actor struct {
	UserID int
	Role   Role
	Grants Grants
}

func (a Actor) Can(action Action) bool {
	return a.Grants.Allows(action)
}

func (a Actor) Scope(action Action) Scope {
	return a.Grants.Scope(action)
}

// Permits evaluates action against a concrete target.
func (a Actor) Permits(action Action, t Target) bool {
	switch a.Grants.Scope(action) {
	case All:
		return true
	case Own:
		return a.UserID != 0 && t.OwnerID == a.UserID
	case Instructed:
		return a.UserID != 0 && t.InstructorID == a.UserID
	case Closed:
		return t.Closed
	default:
		return false
	}
}

// Filter is the row restriction a list query must apply for action.
type Filter struct {
	Scope  Scope
	UserID int
}

func (a Actor) Filter(action Action) Filter {
	return Filter{Scope: a.Grants.Scope(action), UserID: a.UserID}
}
