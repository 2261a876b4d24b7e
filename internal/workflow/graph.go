package workflow

import (
	"fmt"
	"sync"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/group"
	"ClubHub/club-system-backend/internal/workflow/node"

	"github.com/google/uuid"
)

// Edge is a directed connection between two nodes. Condition and approval
// nodes name their source handle ("true"/"false", "yes"/"no") to express
// branch intent; runs do not interpret the label.
type Edge struct {
	ID           uuid.UUID `json:"id"`
	SourceID     uuid.UUID `json:"sourceId"`
	SourceHandle string    `json:"sourceHandle,omitempty"`
	TargetID     uuid.UUID `json:"targetId"`
}

// Graph holds the nodes and edges of one editing session. It is created
// with a single designated start node, lives only in memory, and is
// discarded when the session closes. All mutations go through the Graph so
// concurrent handler calls on the same session cannot interleave.
type Graph struct {
	mu      sync.Mutex
	startID uuid.UUID
	nodes   map[uuid.UUID]*node.Node
	order   []uuid.UUID
	edges   []Edge
	groupID uuid.UUID
	roster  []group.Member
}

// Snapshot is a point-in-time copy of a graph for serialization.
type Snapshot struct {
	StartID uuid.UUID      `json:"startId"`
	GroupID uuid.UUID      `json:"groupId,omitempty"`
	Nodes   []node.Node    `json:"nodes"`
	Edges   []Edge         `json:"edges"`
	Roster  []group.Member `json:"roster"`
}

// NewGraph creates an empty graph holding only the designated start node.
func NewGraph() *Graph {
	start, _ := node.New(node.KindStart, node.Position{X: 250, Y: 50})
	g := &Graph{
		startID: start.ID,
		nodes:   map[uuid.UUID]*node.Node{start.ID: &start},
		order:   []uuid.UUID{start.ID},
	}
	return g
}

// AddNode creates a node of the given kind at the given position. Kinds
// whose payload references group members are rejected until a group has
// been selected; their payloads are created already pointing at the
// current group.
func (g *Graph) AddNode(kind node.Kind, position node.Position) (node.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if kind.Gated() && g.groupID == uuid.Nil {
		return node.Node{}, internal.ErrNoGroupSelected
	}

	created, err := node.New(kind, position)
	if err != nil {
		return node.Node{}, err
	}
	if scoped, ok := created.Payload.(node.GroupScoped); ok {
		scoped.SetGroup(g.groupID)
	}

	g.nodes[created.ID] = &created
	g.order = append(g.order, created.ID)
	return created, nil
}

// UpdateNodePayload shallow-merges the given fields into the node's
// payload. Fields not mentioned keep their values; an empty partial is a
// no-op. No validation beyond field-name checking happens here; see
// ConfigureNode for the editor submit path.
func (g *Graph) UpdateNodePayload(nodeID uuid.UUID, partial map[string]interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[nodeID]
	if !ok {
		return internal.ErrNodeNotFound
	}
	return n.Payload.Merge(partial)
}

// ConfigureNode applies the editor submit path: merge the edits onto a
// copy of the payload, validate the result against the selected group's
// roster, and only then commit. A failed validation leaves the stored
// payload untouched.
func (g *Graph) ConfigureNode(nodeID uuid.UUID, partial map[string]interface{}) (node.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[nodeID]
	if !ok {
		return node.Node{}, internal.ErrNodeNotFound
	}

	edited := n.Payload.Clone()
	if err := edited.Merge(partial); err != nil {
		return node.Node{}, fmt.Errorf("%w: %s", internal.ErrValidationFailed, err)
	}
	if err := edited.Validate(g.roster); err != nil {
		return node.Node{}, err
	}

	n.Payload = edited
	return *n, nil
}

// MoveNode updates a node's canvas position.
func (g *Graph) MoveNode(nodeID uuid.UUID, position node.Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[nodeID]
	if !ok {
		return internal.ErrNodeNotFound
	}
	n.Position = position
	return nil
}

// Connect creates a directed edge. No cycle or kind compatibility check is
// performed; any two existing nodes may be connected.
func (g *Graph) Connect(sourceID uuid.UUID, sourceHandle string, targetID uuid.UUID) (Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[sourceID]; !ok {
		return Edge{}, internal.ErrNodeNotFound
	}
	if _, ok := g.nodes[targetID]; !ok {
		return Edge{}, internal.ErrNodeNotFound
	}

	edge := Edge{
		ID:           uuid.New(),
		SourceID:     sourceID,
		SourceHandle: sourceHandle,
		TargetID:     targetID,
	}
	g.edges = append(g.edges, edge)
	return edge, nil
}

// RemoveEdge deletes one edge by id.
func (g *Graph) RemoveEdge(edgeID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, edge := range g.edges {
		if edge.ID == edgeID {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			return nil
		}
	}
	return internal.ErrEdgeNotFound
}

// RemoveNode deletes a node and every edge touching it. The designated
// start node cannot be removed; it is the graph's sole entry point.
func (g *Graph) RemoveNode(nodeID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[nodeID]; !ok {
		return internal.ErrNodeNotFound
	}
	if nodeID == g.startID {
		return internal.ErrCannotRemoveStart
	}

	delete(g.nodes, nodeID)
	for i, id := range g.order {
		if id == nodeID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}

	remaining := g.edges[:0]
	for _, edge := range g.edges {
		if edge.SourceID != nodeID && edge.TargetID != nodeID {
			remaining = append(remaining, edge)
		}
	}
	g.edges = remaining
	return nil
}

// SelectGroup points the session at a new group. Every payload that
// references group members is repointed at the new group and has its
// member selections cleared, since they may not exist in the new roster.
func (g *Graph) SelectGroup(groupID uuid.UUID, roster []group.Member) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.groupID = groupID
	g.roster = roster

	for _, n := range g.nodes {
		if scoped, ok := n.Payload.(node.GroupScoped); ok {
			scoped.SetGroup(groupID)
		}
	}
}

// GroupID returns the currently selected group, or uuid.Nil when none is
// selected.
func (g *Graph) GroupID() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.groupID
}

// Snapshot returns a copy of the graph's current state. Nodes appear in
// creation order and edges in connection order.
func (g *Graph) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snapshot := Snapshot{
		StartID: g.startID,
		GroupID: g.groupID,
		Nodes:   make([]node.Node, 0, len(g.order)),
		Edges:   append([]Edge{}, g.edges...),
		Roster:  append([]group.Member{}, g.roster...),
	}
	for _, id := range g.order {
		n := g.nodes[id]
		copied := *n
		copied.Payload = n.Payload.Clone()
		snapshot.Nodes = append(snapshot.Nodes, copied)
	}
	return snapshot
}

// startEdges returns the designated start node and its outgoing edges in
// connection order, with a cloned view of each edge's target node.
func (g *Graph) startEdges() (node.Node, []node.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	start, ok := g.nodes[g.startID]
	if !ok {
		return node.Node{}, nil, internal.ErrNoStartNode
	}

	var targets []node.Node
	for _, edge := range g.edges {
		if edge.SourceID != g.startID {
			continue
		}
		target, ok := g.nodes[edge.TargetID]
		if !ok {
			continue
		}
		copied := *target
		copied.Payload = target.Payload.Clone()
		targets = append(targets, copied)
	}
	return *start, targets, nil
}
