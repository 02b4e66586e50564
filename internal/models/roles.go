package models

// Role is the closed set of account roles recognized by the platform.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// CanModerate reports whether the role grants access to the admin area.
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleModerator
}

// KYC verification levels gate trading features. Levels run 0 (none)
// through 3 (full verification).
const (
	KYCNone  = 0
	KYCBasic = 1
	KYCFull  = 3
)

// ClampKYC normalizes an arbitrary integer into the valid KYC range.
func ClampKYC(level int) int {
	if level < KYCNone {
		return KYCNone
	}
	if level > KYCFull {
		return KYCFull
	}
	return level
}
