package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Response is the JSON shape returned by the task endpoints.
type Response struct {
	ID          string   `json:"id"`
	GroupID     string   `json:"groupId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate,omitempty"`
	Priority    string   `json:"priority"`
	CreatedBy   string   `json:"createdBy"`
	AssignedTo  []string `json:"assignedTo"`
	Completed   bool     `json:"completed"`
	CompletedAt string   `json:"completedAt,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// fromResponse rebuilds a Task row from its wire representation.
func fromResponse(r Response) (Task, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return Task{}, err
	}
	groupID, err := uuid.Parse(r.GroupID)
	if err != nil {
		return Task{}, err
	}
	createdBy, err := uuid.Parse(r.CreatedBy)
	if err != nil {
		return Task{}, err
	}

	t := Task{
		ID:          id,
		GroupID:     groupID,
		Title:       r.Title,
		Description: pgtype.Text{String: r.Description, Valid: r.Description != ""},
		Priority:    Priority(r.Priority),
		CreatedBy:   createdBy,
	}
	if r.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, r.DueDate)
		if err != nil {
			return Task{}, err
		}
		t.DueDate = pgtype.Timestamptz{Time: dueDate, Valid: true}
	}
	if r.CompletedAt != "" {
		completedAt, err := time.Parse(time.RFC3339, r.CompletedAt)
		if err != nil {
			return Task{}, err
		}
		t.CompletedAt = pgtype.Timestamptz{Time: completedAt, Valid: true}
	}
	if r.CreatedAt != "" {
		createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			return Task{}, err
		}
		t.CreatedAt = pgtype.Timestamptz{Time: createdAt, Valid: true}
	}
	if r.UpdatedAt != "" {
		updatedAt, err := time.Parse(time.RFC3339, r.UpdatedAt)
		if err != nil {
			return Task{}, err
		}
		t.UpdatedAt = pgtype.Timestamptz{Time: updatedAt, Valid: true}
	}
	return t, nil
}
