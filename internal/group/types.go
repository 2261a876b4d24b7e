package group

import (
	"github.com/google/uuid"
)

// Member is the roster view of one group member.
type Member struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Username  string     `json:"username"`
	AvatarURL string     `json:"avatarUrl"`
	Role      MemberRole `json:"role"`
}

// Detail is a group with its embedded member roster.
type Detail struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Members     []Member  `json:"members"`
}

// IsAdministrator reports whether the role may manage the group.
func (r MemberRole) IsAdministrator() bool {
	return r == MemberRoleLeader || r == MemberRoleOwner
}

// Valid reports whether the role is one of the known roster roles.
func (r MemberRole) Valid() bool {
	switch r {
	case MemberRoleMember, MemberRoleLeader, MemberRoleOwner:
		return true
	}
	return false
}
