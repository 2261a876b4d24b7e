package node

import (
	"fmt"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/group"

	"github.com/google/uuid"
)

// NotificationType selects who receives a notification step's message.
type NotificationType string

const (
	NotificationTypeAll      NotificationType = "all"
	NotificationTypeSpecific NotificationType = "specific"
	NotificationTypeLeader   NotificationType = "leader"
)

// NotificationPayload configures a notification step. Recipients are only
// consulted when the type is "specific".
type NotificationPayload struct {
	Title            string           `json:"title"`
	Message          string           `json:"message"`
	NotificationType NotificationType `json:"notificationType"`
	Recipients       []uuid.UUID      `json:"recipients"`
	GroupID          uuid.UUID        `json:"groupId"`
}

func NewNotificationPayload() *NotificationPayload {
	return &NotificationPayload{
		NotificationType: NotificationTypeAll,
		Recipients:       []uuid.UUID{},
	}
}

func (p *NotificationPayload) Kind() Kind { return KindNotification }

func (p *NotificationPayload) Merge(partial map[string]interface{}) error {
	return merge(p, partial, map[string]bool{
		"title":            true,
		"message":          true,
		"notificationType": true,
		"recipients":       true,
		"groupId":          true,
	})
}

func (p *NotificationPayload) Validate(roster []group.Member) error {
	if p.Title == "" {
		return fmt.Errorf("%w: notification title cannot be empty", internal.ErrValidationFailed)
	}
	if p.Message == "" {
		return fmt.Errorf("%w: notification message cannot be empty", internal.ErrValidationFailed)
	}
	switch p.NotificationType {
	case NotificationTypeAll, NotificationTypeLeader:
	case NotificationTypeSpecific:
		if len(p.Recipients) == 0 {
			return fmt.Errorf("%w: specific notification must have at least one recipient", internal.ErrValidationFailed)
		}
		for _, memberID := range p.Recipients {
			if !rosterContains(roster, memberID) {
				return fmt.Errorf("%w: recipient %s is not a member of the selected group", internal.ErrValidationFailed, memberID)
			}
		}
	default:
		return fmt.Errorf("%w: unknown notification type %q", internal.ErrValidationFailed, p.NotificationType)
	}
	return nil
}

func (p *NotificationPayload) Clone() Payload {
	clone := *p
	clone.Recipients = append([]uuid.UUID{}, p.Recipients...)
	return &clone
}

func (p *NotificationPayload) SetGroup(groupID uuid.UUID) {
	p.GroupID = groupID
	p.Recipients = []uuid.UUID{}
}
