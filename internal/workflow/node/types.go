package node

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/group"

	"github.com/google/uuid"
)

// Kind identifies one of the closed set of workflow step types.
type Kind string

const (
	KindStart        Kind = "start"
	KindTask         Kind = "task"
	KindCondition    Kind = "condition"
	KindNotification Kind = "notification"
	KindApproval     Kind = "approval"
	KindTimer        Kind = "timer"
)

// Gated reports whether creating a node of this kind requires a selected
// group, since its payload references group members.
func (k Kind) Gated() bool {
	switch k {
	case KindTask, KindNotification, KindApproval:
		return true
	}
	return false
}

// Position is a node's location on the editor canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Payload is the kind-specific configuration of a node.
type Payload interface {
	Kind() Kind
	// Merge overlays the given fields onto the payload, leaving fields not
	// mentioned untouched. Unknown field names are rejected.
	Merge(partial map[string]interface{}) error
	// Validate checks the payload against the editor submit rules, using
	// the selected group's roster to resolve member references.
	Validate(roster []group.Member) error
	// Clone returns an independent copy, so edits can be validated before
	// they are committed.
	Clone() Payload
}

// GroupScoped is implemented by payloads that reference group members.
// SetGroup repoints the payload at a new group and clears every member
// reference, since the old selections may not exist in the new roster.
type GroupScoped interface {
	SetGroup(groupID uuid.UUID)
}

// Node is one authored step in a workflow graph.
type Node struct {
	ID       uuid.UUID `json:"id"`
	Kind     Kind      `json:"kind"`
	Label    string    `json:"label"`
	Position Position  `json:"position"`
	Payload  Payload   `json:"payload"`
}

var labels = map[Kind]string{
	KindStart:        "Start",
	KindTask:         "Task",
	KindCondition:    "Condition",
	KindNotification: "Notification",
	KindApproval:     "Approval",
	KindTimer:        "Timer",
}

// New creates a node of the given kind at the given position with a fresh
// id and that kind's default payload. No validation happens here; payloads
// are validated when the editor submits them.
func New(kind Kind, position Position) (Node, error) {
	var payload Payload
	switch kind {
	case KindStart:
		payload = &StartPayload{}
	case KindTask:
		payload = NewTaskPayload()
	case KindCondition:
		payload = NewConditionPayload()
	case KindNotification:
		payload = NewNotificationPayload()
	case KindApproval:
		payload = &ApprovalPayload{Approvers: []uuid.UUID{}}
	case KindTimer:
		payload = NewTimerPayload()
	default:
		return Node{}, fmt.Errorf("%w: %s", internal.ErrUnknownNodeKind, kind)
	}

	return Node{
		ID:       uuid.New(),
		Kind:     kind,
		Label:    labels[kind],
		Position: position,
		Payload:  payload,
	}, nil
}

// merge implements the shallow-merge contract shared by all payloads:
// marshal the payload to a field map, overlay the partial on top, and
// decode the result back. Field names not declared by the payload's kind
// are rejected so typos surface instead of vanishing.
func merge(payload Payload, partial map[string]interface{}, validFields map[string]bool) error {
	var invalidFields []string
	for fieldName := range partial {
		if !validFields[fieldName] {
			invalidFields = append(invalidFields, fieldName)
		}
	}
	if len(invalidFields) > 0 {
		sort.Strings(invalidFields)
		return fmt.Errorf("%s node contains invalid field(s): %v. Valid fields are: %s",
			payload.Kind(), invalidFields, formatFieldNames(validFields))
	}

	if len(partial) == 0 {
		return nil
	}

	current, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", payload.Kind(), err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(current, &fields); err != nil {
		return fmt.Errorf("decode %s payload: %w", payload.Kind(), err)
	}

	for fieldName, value := range partial {
		fields[fieldName] = value
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode merged %s payload: %w", payload.Kind(), err)
	}
	if err := json.Unmarshal(merged, payload); err != nil {
		return fmt.Errorf("%s payload has invalid field value: %w", payload.Kind(), err)
	}

	return nil
}

func formatFieldNames(validFields map[string]bool) string {
	names := make([]string, 0, len(validFields))
	for name := range validFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// rosterContains reports whether memberID is in the roster with one of the
// given roles. An empty role list accepts any role.
func rosterContains(roster []group.Member, memberID uuid.UUID, roles ...group.MemberRole) bool {
	for _, member := range roster {
		if member.ID != memberID {
			continue
		}
		if len(roles) == 0 {
			return true
		}
		for _, role := range roles {
			if member.Role == role {
				return true
			}
		}
		return false
	}
	return false
}
