package node

import (
	"fmt"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/group"
)

// TimerUnit is the unit of a timer step's delay.
type TimerUnit string

const (
	TimerUnitMinutes TimerUnit = "minutes"
	TimerUnitHours   TimerUnit = "hours"
	TimerUnitDays    TimerUnit = "days"
)

// TimerPayload configures a delay step. Timers are authored on the canvas
// but not waited on during a run.
type TimerPayload struct {
	Duration int       `json:"duration"`
	Unit     TimerUnit `json:"unit"`
}

func NewTimerPayload() *TimerPayload {
	return &TimerPayload{Duration: 1, Unit: TimerUnitHours}
}

func (p *TimerPayload) Kind() Kind { return KindTimer }

func (p *TimerPayload) Merge(partial map[string]interface{}) error {
	return merge(p, partial, map[string]bool{
		"duration": true,
		"unit":     true,
	})
}

func (p *TimerPayload) Validate(roster []group.Member) error {
	if p.Duration < 1 {
		return fmt.Errorf("%w: timer duration must be a positive integer", internal.ErrValidationFailed)
	}
	switch p.Unit {
	case TimerUnitMinutes, TimerUnitHours, TimerUnitDays:
	case "":
		return fmt.Errorf("%w: timer unit is required", internal.ErrValidationFailed)
	default:
		return fmt.Errorf("%w: unknown timer unit %q", internal.ErrValidationFailed, p.Unit)
	}
	return nil
}

func (p *TimerPayload) Clone() Payload {
	clone := *p
	return &clone
}
