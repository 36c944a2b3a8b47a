package authz

// Resolution is the outcome of resolving a user's assignments: the active
// rows and the single primary assignment used for coarse-grained decisions.
type Resolution struct {
	Active      []*Assignment
	Primary     *Assignment
	PrimaryRole *Role
}

// HasAssignments reports whether the user holds any active assignment.
// A user without assignments is a valid, fully-restricted state.
func (r *Resolution) HasAssignments() bool {
	return len(r.Active) > 0
}

// Resolve filters a user's assignments down to the active set and picks the
// primary one. Data entry can leave zero or several rows flagged primary;
// the pick is deterministic either way so two calls never disagree:
// the assignment whose role has the lowest hierarchy level wins, ties going
// to the earliest-created (lowest ID) assignment. roles must contain every
// role referenced by an active assignment; assignments referencing unknown
// roles are skipped rather than trusted.
func Resolve(assignments []*Assignment, roles map[uint]*Role) *Resolution {
	active := make([]*Assignment, 0, len(assignments))
	for _, a := range assignments {
		if !a.IsActive() {
			continue
		}
		if _, ok := roles[a.RoleID()]; !ok {
			continue
		}
		active = append(active, a)
	}

	res := &Resolution{Active: active}
	if len(active) == 0 {
		return res
	}

	candidates := make([]*Assignment, 0, len(active))
	for _, a := range active {
		if a.IsPrimary() {
			candidates = append(candidates, a)
		}
	}
	// Nothing flagged primary: fall back to picking among all active rows.
	if len(candidates) == 0 {
		candidates = active
	}

	primary := candidates[0]
	for _, a := range candidates[1:] {
		if betterPrimary(a, primary, roles) {
			primary = a
		}
	}

	res.Primary = primary
	res.PrimaryRole = roles[primary.RoleID()]
	return res
}

func betterPrimary(a, b *Assignment, roles map[uint]*Role) bool {
	ra, rb := roles[a.RoleID()], roles[b.RoleID()]
	if ra.HierarchyLevel() != rb.HierarchyLevel() {
		return ra.HierarchyLevel() < rb.HierarchyLevel()
	}
	if !a.CreatedAt().Equal(b.CreatedAt()) {
		return a.CreatedAt().Before(b.CreatedAt())
	}
	return a.ID() < b.ID()
}
