package node

import "ClubHub/club-system-backend/internal/group"

// StartPayload is the entry point of a workflow. It has no configurable
// fields; every graph gets exactly one designated start node on open.
type StartPayload struct{}

func (p *StartPayload) Kind() Kind { return KindStart }

func (p *StartPayload) Merge(partial map[string]interface{}) error {
	return merge(p, partial, map[string]bool{})
}

func (p *StartPayload) Validate(roster []group.Member) error {
	return nil
}

func (p *StartPayload) Clone() Payload {
	clone := *p
	return &clone
}
