package node

import (
	"fmt"
	"time"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/group"
	"ClubHub/club-system-backend/internal/task"

	"github.com/google/uuid"
)

// TaskPayload configures a task-creation step.
type TaskPayload struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     *time.Time    `json:"dueDate"`
	Priority    task.Priority `json:"priority"`
	AssignedTo  []uuid.UUID   `json:"assignedTo"`
	GroupID     uuid.UUID     `json:"groupId"`
}

func NewTaskPayload() *TaskPayload {
	return &TaskPayload{
		Priority:   task.PriorityMedium,
		AssignedTo: []uuid.UUID{},
	}
}

func (p *TaskPayload) Kind() Kind { return KindTask }

func (p *TaskPayload) Merge(partial map[string]interface{}) error {
	return merge(p, partial, map[string]bool{
		"title":       true,
		"description": true,
		"dueDate":     true,
		"priority":    true,
		"assignedTo":  true,
		"groupId":     true,
	})
}

func (p *TaskPayload) Validate(roster []group.Member) error {
	if p.Title == "" {
		return fmt.Errorf("%w: task title cannot be empty", internal.ErrValidationFailed)
	}
	if len(p.AssignedTo) == 0 {
		return fmt.Errorf("%w: task must have at least one assignee", internal.ErrValidationFailed)
	}
	if p.DueDate == nil {
		return fmt.Errorf("%w: task due date is required", internal.ErrValidationFailed)
	}
	if !p.Priority.Valid() {
		return fmt.Errorf("%w: invalid task priority %q", internal.ErrValidationFailed, p.Priority)
	}
	for _, memberID := range p.AssignedTo {
		if !rosterContains(roster, memberID, group.MemberRoleMember) {
			return fmt.Errorf("%w: assignee %s is not a plain member of the selected group", internal.ErrValidationFailed, memberID)
		}
	}
	return nil
}

func (p *TaskPayload) Clone() Payload {
	clone := *p
	clone.AssignedTo = append([]uuid.UUID{}, p.AssignedTo...)
	if p.DueDate != nil {
		dueDate := *p.DueDate
		clone.DueDate = &dueDate
	}
	return &clone
}

func (p *TaskPayload) SetGroup(groupID uuid.UUID) {
	p.GroupID = groupID
	p.AssignedTo = []uuid.UUID{}
}
