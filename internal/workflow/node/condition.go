package node

import (
	"fmt"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/group"
)

// ConditionKind selects which task attribute a condition inspects.
type ConditionKind string

const (
	ConditionKindPriority   ConditionKind = "priority"
	ConditionKindStatus     ConditionKind = "status"
	ConditionKindDueDate    ConditionKind = "dueDate"
	ConditionKindAssignedTo ConditionKind = "assignedTo"
)

// ConditionPayload configures a branch point. Its true/false handles are
// authored on the canvas but not interpreted during a run.
type ConditionPayload struct {
	ConditionKind ConditionKind `json:"conditionKind"`
	Value         string        `json:"value"`
}

func NewConditionPayload() *ConditionPayload {
	return &ConditionPayload{ConditionKind: ConditionKindPriority}
}

func (p *ConditionPayload) Kind() Kind { return KindCondition }

func (p *ConditionPayload) Merge(partial map[string]interface{}) error {
	return merge(p, partial, map[string]bool{
		"conditionKind": true,
		"value":         true,
	})
}

func (p *ConditionPayload) Validate(roster []group.Member) error {
	switch p.ConditionKind {
	case ConditionKindPriority, ConditionKindStatus, ConditionKindDueDate:
		if p.Value == "" {
			return fmt.Errorf("%w: condition value is required for kind %q", internal.ErrValidationFailed, p.ConditionKind)
		}
	case ConditionKindAssignedTo:
		// value is optional free text for this kind
	case "":
		return fmt.Errorf("%w: condition kind is required", internal.ErrValidationFailed)
	default:
		return fmt.Errorf("%w: unknown condition kind %q", internal.ErrValidationFailed, p.ConditionKind)
	}
	return nil
}

func (p *ConditionPayload) Clone() Payload {
	clone := *p
	return &clone
}
