package node

import (
	"fmt"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/group"

	"github.com/google/uuid"
)

// ApprovalPayload configures an approval step. Approvers must hold a
// leader or owner role in the selected group.
type ApprovalPayload struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Approvers   []uuid.UUID `json:"approvers"`
	GroupID     uuid.UUID   `json:"groupId"`
}

func (p *ApprovalPayload) Kind() Kind { return KindApproval }

func (p *ApprovalPayload) Merge(partial map[string]interface{}) error {
	return merge(p, partial, map[string]bool{
		"title":       true,
		"description": true,
		"approvers":   true,
		"groupId":     true,
	})
}

func (p *ApprovalPayload) Validate(roster []group.Member) error {
	if p.Title == "" {
		return fmt.Errorf("%w: approval title cannot be empty", internal.ErrValidationFailed)
	}
	if p.Description == "" {
		return fmt.Errorf("%w: approval description cannot be empty", internal.ErrValidationFailed)
	}
	if len(p.Approvers) == 0 {
		return fmt.Errorf("%w: approval must have at least one approver", internal.ErrValidationFailed)
	}
	for _, memberID := range p.Approvers {
		if !rosterContains(roster, memberID, group.MemberRoleLeader, group.MemberRoleOwner) {
			return fmt.Errorf("%w: approver %s is not a leader or owner of the selected group", internal.ErrValidationFailed, memberID)
		}
	}
	return nil
}

func (p *ApprovalPayload) Clone() Payload {
	clone := *p
	clone.Approvers = append([]uuid.UUID{}, p.Approvers...)
	return &clone
}

func (p *ApprovalPayload) SetGroup(groupID uuid.UUID) {
	p.GroupID = groupID
	p.Approvers = []uuid.UUID{}
}
