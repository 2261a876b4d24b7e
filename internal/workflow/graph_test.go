package workflow_test

import (
	"testing"
	"time"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/group"
	"ClubHub/club-system-backend/internal/workflow"
	"ClubHub/club-system-backend/internal/workflow/node"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testRoster() (group.Member, group.Member, []group.Member) {
	plainMember := group.Member{ID: uuid.New(), Username: "member", Role: group.MemberRoleMember}
	leader := group.Member{ID: uuid.New(), Username: "leader", Role: group.MemberRoleLeader}
	return plainMember, leader, []group.Member{plainMember, leader}
}

func TestNewGraph_HasSingleStartNode(t *testing.T) {
	g := workflow.NewGraph()
	snapshot := g.Snapshot()

	require.Len(t, snapshot.Nodes, 1)
	require.Equal(t, node.KindStart, snapshot.Nodes[0].Kind)
	require.Equal(t, snapshot.StartID, snapshot.Nodes[0].ID)
	require.Empty(t, snapshot.Edges)
}

func TestGraph_AddNode_GroupGate(t *testing.T) {
	_, _, roster := testRoster()
	groupID := uuid.New()
	position := node.Position{X: 300, Y: 200}

	tests := []struct {
		name        string
		kind        node.Kind
		selectGroup bool
		wantErr     error
	}{
		{name: "Should reject task node without selected group", kind: node.KindTask, wantErr: internal.ErrNoGroupSelected},
		{name: "Should reject notification node without selected group", kind: node.KindNotification, wantErr: internal.ErrNoGroupSelected},
		{name: "Should reject approval node without selected group", kind: node.KindApproval, wantErr: internal.ErrNoGroupSelected},
		{name: "Should allow condition node without selected group", kind: node.KindCondition},
		{name: "Should allow timer node without selected group", kind: node.KindTimer},
		{name: "Should allow start node without selected group", kind: node.KindStart},
		{name: "Should allow task node once a group is selected", kind: node.KindTask, selectGroup: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := workflow.NewGraph()
			if tt.selectGroup {
				g.SelectGroup(groupID, roster)
			}

			created, err := g.AddNode(tt.kind, position)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Len(t, g.Snapshot().Nodes, 1, "no node may be created on a rejected drop")
				return
			}

			require.NoError(t, err)
			require.Equal(t, position, created.Position)
			require.Len(t, g.Snapshot().Nodes, 2, "exactly one node is created per drop")
		})
	}
}

func TestGraph_AddNode_GatedNodeTracksSelectedGroup(t *testing.T) {
	_, _, roster := testRoster()
	groupID := uuid.New()

	g := workflow.NewGraph()
	g.SelectGroup(groupID, roster)

	created, err := g.AddNode(node.KindTask, node.Position{})
	require.NoError(t, err)
	require.Equal(t, groupID, created.Payload.(*node.TaskPayload).GroupID)
}

func TestGraph_UpdateNodePayload(t *testing.T) {
	_, _, roster := testRoster()
	g := workflow.NewGraph()
	g.SelectGroup(uuid.New(), roster)

	created, err := g.AddNode(node.KindTask, node.Position{})
	require.NoError(t, err)

	t.Run("Should merge only the mentioned fields", func(t *testing.T) {
		err := g.UpdateNodePayload(created.ID, map[string]interface{}{"title": "Write report"})
		require.NoError(t, err)

		payload := findNode(t, g, created.ID).Payload.(*node.TaskPayload)
		require.Equal(t, "Write report", payload.Title)
		require.Equal(t, "medium", string(payload.Priority))
	})

	t.Run("Should treat an empty partial as a no-op", func(t *testing.T) {
		before := findNode(t, g, created.ID).Payload.(*node.TaskPayload)
		err := g.UpdateNodePayload(created.ID, map[string]interface{}{})
		require.NoError(t, err)
		after := findNode(t, g, created.ID).Payload.(*node.TaskPayload)
		require.Equal(t, *before, *after)
	})

	t.Run("Should reject unknown node ids", func(t *testing.T) {
		err := g.UpdateNodePayload(uuid.New(), map[string]interface{}{"title": "x"})
		require.ErrorIs(t, err, internal.ErrNodeNotFound)
	})
}

func TestGraph_ConfigureNode(t *testing.T) {
	plainMember, _, roster := testRoster()
	g := workflow.NewGraph()
	g.SelectGroup(uuid.New(), roster)

	created, err := g.AddNode(node.KindTask, node.Position{})
	require.NoError(t, err)

	t.Run("Should leave the payload untouched when validation fails", func(t *testing.T) {
		_, err := g.ConfigureNode(created.ID, map[string]interface{}{"title": "Half configured"})
		require.Error(t, err)

		payload := findNode(t, g, created.ID).Payload.(*node.TaskPayload)
		require.Empty(t, payload.Title, "a rejected submit must not mutate the stored payload")
	})

	t.Run("Should commit a valid submit", func(t *testing.T) {
		dueDate := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
		configured, err := g.ConfigureNode(created.ID, map[string]interface{}{
			"title":      "Write report",
			"dueDate":    dueDate,
			"assignedTo": []string{plainMember.ID.String()},
		})
		require.NoError(t, err)

		payload := configured.Payload.(*node.TaskPayload)
		require.Equal(t, "Write report", payload.Title)
		require.Equal(t, []uuid.UUID{plainMember.ID}, payload.AssignedTo)

		stored := findNode(t, g, created.ID).Payload.(*node.TaskPayload)
		require.Equal(t, "Write report", stored.Title)
	})
}

func TestGraph_SelectGroup_ClearsMemberReferences(t *testing.T) {
	plainMember, leader, roster := testRoster()
	firstGroup := uuid.New()
	secondGroup := uuid.New()

	g := workflow.NewGraph()
	g.SelectGroup(firstGroup, roster)

	taskNode, err := g.AddNode(node.KindTask, node.Position{})
	require.NoError(t, err)
	notificationNode, err := g.AddNode(node.KindNotification, node.Position{})
	require.NoError(t, err)
	approvalNode, err := g.AddNode(node.KindApproval, node.Position{})
	require.NoError(t, err)
	conditionNode, err := g.AddNode(node.KindCondition, node.Position{})
	require.NoError(t, err)

	require.NoError(t, g.UpdateNodePayload(taskNode.ID, map[string]interface{}{
		"title":      "Write report",
		"assignedTo": []string{plainMember.ID.String()},
	}))
	require.NoError(t, g.UpdateNodePayload(notificationNode.ID, map[string]interface{}{
		"notificationType": "specific",
		"recipients":       []string{plainMember.ID.String()},
	}))
	require.NoError(t, g.UpdateNodePayload(approvalNode.ID, map[string]interface{}{
		"approvers": []string{leader.ID.String()},
	}))
	require.NoError(t, g.UpdateNodePayload(conditionNode.ID, map[string]interface{}{
		"value": "high",
	}))

	g.SelectGroup(secondGroup, roster)

	taskPayload := findNode(t, g, taskNode.ID).Payload.(*node.TaskPayload)
	require.Equal(t, secondGroup, taskPayload.GroupID)
	require.Empty(t, taskPayload.AssignedTo)
	require.Equal(t, "Write report", taskPayload.Title, "non-member fields survive a group change")

	notificationPayload := findNode(t, g, notificationNode.ID).Payload.(*node.NotificationPayload)
	require.Equal(t, secondGroup, notificationPayload.GroupID)
	require.Empty(t, notificationPayload.Recipients)

	approvalPayload := findNode(t, g, approvalNode.ID).Payload.(*node.ApprovalPayload)
	require.Equal(t, secondGroup, approvalPayload.GroupID)
	require.Empty(t, approvalPayload.Approvers)

	conditionPayload := findNode(t, g, conditionNode.ID).Payload.(*node.ConditionPayload)
	require.Equal(t, "high", conditionPayload.Value, "condition nodes are untouched by group changes")
}

func TestGraph_Connect(t *testing.T) {
	g := workflow.NewGraph()
	snapshot := g.Snapshot()

	first, err := g.AddNode(node.KindCondition, node.Position{})
	require.NoError(t, err)
	second, err := g.AddNode(node.KindTimer, node.Position{})
	require.NoError(t, err)

	// no cycle or kind check: any pair of nodes may be connected, in
	// either direction, repeatedly
	_, err = g.Connect(snapshot.StartID, "", first.ID)
	require.NoError(t, err)
	_, err = g.Connect(first.ID, "true", second.ID)
	require.NoError(t, err)
	_, err = g.Connect(second.ID, "", first.ID)
	require.NoError(t, err)
	_, err = g.Connect(first.ID, "false", second.ID)
	require.NoError(t, err)

	require.Len(t, g.Snapshot().Edges, 4)

	_, err = g.Connect(uuid.New(), "", first.ID)
	require.ErrorIs(t, err, internal.ErrNodeNotFound)
}

func TestGraph_RemoveNode(t *testing.T) {
	g := workflow.NewGraph()
	snapshot := g.Snapshot()

	condition, err := g.AddNode(node.KindCondition, node.Position{})
	require.NoError(t, err)
	timer, err := g.AddNode(node.KindTimer, node.Position{})
	require.NoError(t, err)

	_, err = g.Connect(snapshot.StartID, "", condition.ID)
	require.NoError(t, err)
	_, err = g.Connect(condition.ID, "true", timer.ID)
	require.NoError(t, err)

	require.NoError(t, g.RemoveNode(condition.ID))

	after := g.Snapshot()
	require.Len(t, after.Nodes, 2)
	require.Empty(t, after.Edges, "edges touching a removed node are dropped")

	require.ErrorIs(t, g.RemoveNode(snapshot.StartID), internal.ErrCannotRemoveStart)
	require.ErrorIs(t, g.RemoveNode(uuid.New()), internal.ErrNodeNotFound)
}

func TestGraph_RemoveEdge(t *testing.T) {
	g := workflow.NewGraph()
	timer, err := g.AddNode(node.KindTimer, node.Position{})
	require.NoError(t, err)

	edge, err := g.Connect(g.Snapshot().StartID, "", timer.ID)
	require.NoError(t, err)

	require.NoError(t, g.RemoveEdge(edge.ID))
	require.Empty(t, g.Snapshot().Edges)
	require.ErrorIs(t, g.RemoveEdge(edge.ID), internal.ErrEdgeNotFound)
}

func TestGraph_MoveNode(t *testing.T) {
	g := workflow.NewGraph()
	timer, err := g.AddNode(node.KindTimer, node.Position{X: 10, Y: 10})
	require.NoError(t, err)

	require.NoError(t, g.MoveNode(timer.ID, node.Position{X: 400, Y: 120}))
	require.Equal(t, node.Position{X: 400, Y: 120}, findNode(t, g, timer.ID).Position)
}

func TestGraph_SnapshotIsACopy(t *testing.T) {
	_, _, roster := testRoster()
	g := workflow.NewGraph()
	g.SelectGroup(uuid.New(), roster)

	created, err := g.AddNode(node.KindTask, node.Position{})
	require.NoError(t, err)

	snapshot := g.Snapshot()
	snapshot.Nodes[1].Payload.(*node.TaskPayload).Title = "Mutated copy"

	require.Empty(t, findNode(t, g, created.ID).Payload.(*node.TaskPayload).Title)
}

func findNode(t *testing.T, g *workflow.Graph, id uuid.UUID) node.Node {
	t.Helper()
	for _, n := range g.Snapshot().Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %s not found in graph", id)
	return node.Node{}
}
