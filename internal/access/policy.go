// Package access decides what each role may do to each resource.
//
// A Policy resolves (role, resource) to Grants once per request; handlers and
// services then ask the resulting Actor whether an action is permitted on a
// concrete target instead of switching on the role themselves.
package access

type Role string

const (
	Anonymous Role = "anonymous"
	Member    Role = "member"
	Staff     Role = "staff"
	Admin     Role = "admin"
)

// ParseRole maps a token role claim to a Role. Unknown or empty claims are anonymous.
func ParseRole(s string) Role {
	switch Role(s) {
	case Member, Staff, Admin:
		return Role(s)
	default:
		return Anonymous
	}
}

// IsStaff is true for staff and admin.
func (r Role) IsStaff() bool { return r == Staff || r == Admin }

func (r Role) IsSuperuser() bool { return r == Admin }

type Resource string

const (
	Classes       Resource = "classes"
	Memberships   Resource = "memberships"
	Bookings      Resource = "bookings"
	Attendance    Resource = "attendance"
	Subscriptions Resource = "subscriptions"
	Payments      Resource = "payments"
	Feedback      Resource = "feedback"
	Reports       Resource = "reports"
)

type Action string

const (
	Read   Action = "read"
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
)

// Scope narrows an allowed action to a subset of rows.
type Scope int

const (
	None Scope = iota
	// Own rows whose user is the actor.
	Own
	// Instructed rows tied to a class the actor instructs.
	Instructed
	// Closed subscriptions that are cancelled or expired.
	Closed
	All
)

func (s Scope) String() string {
	switch s {
	case Own:
		return "own"
	case Instructed:
		return "instructed"
	case Closed:
		return "closed"
	case All:
		return "all"
	default:
		return "none"
	}
}

type Grants map[Action]Scope

func (g Grants) Scope(a Action) Scope {
	return g[a]
}

func (g Grants) Allows(a Action) bool {
	return g.Scope(a) != None
}

type Policy interface {
	Grants(role Role, resource Resource) Grants
}

type staticPolicy map[Resource]map[Role]Grants

func (p staticPolicy) Grants(role Role, resource Resource) Grants {
	if g, ok := p[resource][role]; ok {
		return g
	}
	return Grants{}
}

var everything = Grants{Read: All, Create: All, Update: All, Delete: All}

var catalog = map[Role]Grants{
	Anonymous: {Read: All},
	Member:    {Read: All},
	Staff:     everything,
	Admin:     everything,
}

// DefaultPolicy is the gym's access table.
var DefaultPolicy Policy = staticPolicy{
	Classes:     catalog,
	Memberships: catalog,
	Bookings: {
		Member: {Create: Own, Read: Own, Update: Own},
		Staff:  {Read: Instructed},
		Admin:  everything,
	},
	Attendance: {
		Member: {Read: Own},
		Staff:  {Read: Instructed, Create: Instructed, Update: Instructed},
		Admin:  everything,
	},
	Subscriptions: {
		Member: {Create: Own, Read: Own, Update: Own},
		Staff:  {Read: Closed, Delete: Closed},
		Admin:  everything,
	},
	Payments: {
		Member: {Create: Own, Read: Own},
		Staff:  {Read: Own},
		Admin:  everything,
	},
	Feedback: {
		Member: {Create: Own, Read: Own, Update: Own, Delete: Own},
		Staff:  {Read: Instructed},
		Admin:  {Read: All, Delete: All},
	},
	Reports: {
		Admin: {Read: All},
	},
}
