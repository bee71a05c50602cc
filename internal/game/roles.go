package game

import "strings"

// Role is the closed set of hidden roles. Comparison is plain equality;
// free-form strings are parsed once at the storage boundary and never
// compared directly.
type Role int

const (
	RoleNone Role = iota // not yet assigned
	RoleGF
	RoleFling
	RoleSideChick
	RoleEx
	RoleExsEx
	RoleLover
)

// AnchorRole's holder becomes the first seeker and is never a search
// target, which is why its point value is zero.
const AnchorRole = RoleGF

// RoleOrder is the search order. RoleIndex points into this list; index
// 0 is the anchor and the first target is always index 1.
var RoleOrder = [PlayerCount]Role{RoleGF, RoleFling, RoleSideChick, RoleEx, RoleExsEx, RoleLover}

var roleNames = map[Role]string{
	RoleGF:        "GF",
	RoleFling:     "Fling",
	RoleSideChick: "Side Chick",
	RoleEx:        "Ex",
	RoleExsEx:     "Ex's Ex",
	RoleLover:     "Lover",
}

// rolePoints is the fixed award for finding each role. Rarer roles are
// worth more; the anchor is never found so it awards nothing.
var rolePoints = map[Role]int{
	RoleGF:        0,
	RoleFling:     10,
	RoleSideChick: 8,
	RoleEx:        6,
	RoleExsEx:     4,
	RoleLover:     2,
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return ""
}

func (r Role) Points() int {
	return rolePoints[r]
}

// ParseRole maps a stored role name onto the closed Role set. Matching
// is trimmed and case-insensitive so values written by older builds
// still round-trip.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for role, name := range roleNames {
		if strings.EqualFold(s, name) {
			return role, true
		}
	}
	return RoleNone, false
}
