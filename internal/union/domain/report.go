package domain

// MemberStats counts member profiles by status.
type MemberStats struct {
	Total  int64
	Active int64
	InUP   int64 // up_status "in"
}

func (s MemberStats) Inactive() int64 { return s.Total - s.Active }
func (s MemberStats) OutUP() int64    { return s.Total - s.InUP }

// RoleCount is the number of accounts holding one role.
type RoleCount struct {
	Role  Role
	Count int64
}

// Demographics is the read-only summary shown on the admin dashboard.
type Demographics struct {
	Roles      []RoleCount // admin, officer, member; zero counts included
	Members    MemberStats
	Committees int64
}

// Users is the total across all roles.
func (d Demographics) Users() int64 {
	var n int64
	for _, rc := range d.Roles {
		n += rc.Count
	}
	return n
}
