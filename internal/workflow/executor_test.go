package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ClubHub/club-system-backend/internal/group"
	"ClubHub/club-system-backend/internal/task"
	"ClubHub/club-system-backend/internal/workflow"
	"ClubHub/club-system-backend/internal/workflow/node"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTaskCreator records create calls and can be told to fail from a
// given call onward
type fakeTaskCreator struct {
	requests []task.CreateRequest
	failFrom int
	err      error
}

func (f *fakeTaskCreator) Create(ctx context.Context, req task.CreateRequest) (task.Task, error) {
	if f.err != nil && len(f.requests)+1 >= f.failFrom {
		return task.Task{}, f.err
	}
	f.requests = append(f.requests, req)
	var dueDate pgtype.Timestamptz
	if req.DueDate != nil {
		dueDate = pgtype.Timestamptz{Time: *req.DueDate, Valid: true}
	}
	return task.Task{
		ID:        uuid.New(),
		GroupID:   req.GroupID,
		Title:     req.Title,
		Priority:  req.Priority,
		DueDate:   dueDate,
		CreatedBy: req.CreatedBy,
	}, nil
}

func addTaskNode(t *testing.T, g *workflow.Graph, title string, assignee uuid.UUID) node.Node {
	t.Helper()
	created, err := g.AddNode(node.KindTask, node.Position{})
	require.NoError(t, err)
	dueDate := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	require.NoError(t, g.UpdateNodePayload(created.ID, map[string]interface{}{
		"title":      title,
		"dueDate":    dueDate,
		"assignedTo": []string{assignee.String()},
	}))
	return created
}

func TestExecutor_Run_OnlyImmediateChildrenOfStart(t *testing.T) {
	// Start -> TaskA -> TaskB: only TaskA is directly connected to Start,
	// so a run must create TaskA and never reach TaskB
	plainMember, _, roster := testRoster()
	g := workflow.NewGraph()
	g.SelectGroup(uuid.New(), roster)
	startID := g.Snapshot().StartID

	taskA := addTaskNode(t, g, "Task A", plainMember.ID)
	taskB := addTaskNode(t, g, "Task B", plainMember.ID)
	_, err := g.Connect(startID, "", taskA.ID)
	require.NoError(t, err)
	_, err = g.Connect(taskA.ID, "", taskB.ID)
	require.NoError(t, err)

	creator := &fakeTaskCreator{}
	executor := workflow.NewExecutor(zap.NewNop(), creator)

	result, err := executor.Run(context.Background(), g, uuid.New())
	require.NoError(t, err)
	require.Len(t, creator.requests, 1)
	require.Equal(t, "Task A", creator.requests[0].Title)
	require.Len(t, result.CreatedTasks, 1)
}

func TestExecutor_Run_SkipsNonTaskChildren(t *testing.T) {
	plainMember, _, roster := testRoster()
	g := workflow.NewGraph()
	g.SelectGroup(uuid.New(), roster)
	startID := g.Snapshot().StartID

	first := addTaskNode(t, g, "First task", plainMember.ID)
	second := addTaskNode(t, g, "Second task", plainMember.ID)
	condition, err := g.AddNode(node.KindCondition, node.Position{})
	require.NoError(t, err)

	for _, target := range []uuid.UUID{first.ID, second.ID, condition.ID} {
		_, err := g.Connect(startID, "", target)
		require.NoError(t, err)
	}

	creator := &fakeTaskCreator{}
	executor := workflow.NewExecutor(zap.NewNop(), creator)

	result, err := executor.Run(context.Background(), g, uuid.New())
	require.NoError(t, err)
	require.Len(t, creator.requests, 2, "exactly one call per directly connected task node")
	require.Equal(t, 1, result.SkippedNodes, "the condition node is skipped without error")
}

func TestExecutor_Run_PartialFailureKeepsEarlierTasks(t *testing.T) {
	plainMember, _, roster := testRoster()
	g := workflow.NewGraph()
	g.SelectGroup(uuid.New(), roster)
	startID := g.Snapshot().StartID

	first := addTaskNode(t, g, "First task", plainMember.ID)
	second := addTaskNode(t, g, "Second task", plainMember.ID)
	_, err := g.Connect(startID, "", first.ID)
	require.NoError(t, err)
	_, err = g.Connect(startID, "", second.ID)
	require.NoError(t, err)

	serviceErr := errors.New("task service unavailable")
	creator := &fakeTaskCreator{failFrom: 2, err: serviceErr}
	executor := workflow.NewExecutor(zap.NewNop(), creator)

	result, err := executor.Run(context.Background(), g, uuid.New())
	require.ErrorIs(t, err, serviceErr)
	require.Len(t, creator.requests, 1, "the first task was created before the failure")
	require.Equal(t, "First task", creator.requests[0].Title)
	require.Len(t, result.CreatedTasks, 1, "no compensating delete is issued")
}

func TestExecutor_Run_SequentialInConnectionOrder(t *testing.T) {
	plainMember, _, roster := testRoster()
	g := workflow.NewGraph()
	g.SelectGroup(uuid.New(), roster)
	startID := g.Snapshot().StartID

	titles := []string{"First", "Second", "Third"}
	for _, title := range titles {
		created := addTaskNode(t, g, title, plainMember.ID)
		_, err := g.Connect(startID, "", created.ID)
		require.NoError(t, err)
	}

	creator := &fakeTaskCreator{}
	executor := workflow.NewExecutor(zap.NewNop(), creator)

	_, err := executor.Run(context.Background(), g, uuid.New())
	require.NoError(t, err)
	require.Len(t, creator.requests, 3)
	for i, title := range titles {
		require.Equal(t, title, creator.requests[i].Title)
	}
}

func TestExecutor_Run_EmptyGraph(t *testing.T) {
	g := workflow.NewGraph()
	creator := &fakeTaskCreator{}
	executor := workflow.NewExecutor(zap.NewNop(), creator)

	result, err := executor.Run(context.Background(), g, uuid.New())
	require.NoError(t, err)
	require.Empty(t, creator.requests)
	require.Empty(t, result.CreatedTasks)
}

func TestExecutor_Run_EndToEnd(t *testing.T) {
	// drop a task at (300,200) with group G selected, configure it,
	// connect Start to it, run, and check the single create call carries
	// the configured payload plus the documented defaults
	memberM := group.Member{ID: uuid.New(), Username: "m", Role: group.MemberRoleMember}
	groupG := uuid.New()

	g := workflow.NewGraph()
	g.SelectGroup(groupG, []group.Member{memberM})
	startID := g.Snapshot().StartID

	dropped, err := g.AddNode(node.KindTask, node.Position{X: 300, Y: 200})
	require.NoError(t, err)

	tomorrowNine := time.Now().Add(24 * time.Hour).Truncate(time.Hour).UTC()
	_, err = g.ConfigureNode(dropped.ID, map[string]interface{}{
		"title":      "Write report",
		"dueDate":    tomorrowNine.Format(time.RFC3339),
		"assignedTo": []string{memberM.ID.String()},
	})
	require.NoError(t, err)

	_, err = g.Connect(startID, "", dropped.ID)
	require.NoError(t, err)

	creator := &fakeTaskCreator{}
	executor := workflow.NewExecutor(zap.NewNop(), creator)

	result, err := executor.Run(context.Background(), g, uuid.New())
	require.NoError(t, err)
	require.Len(t, creator.requests, 1)

	request := creator.requests[0]
	require.Equal(t, "Write report", request.Title)
	require.Equal(t, "", request.Description)
	require.Equal(t, task.PriorityMedium, request.Priority)
	require.Equal(t, groupG, request.GroupID)
	require.Equal(t, []uuid.UUID{memberM.ID}, request.AssignedTo)
	require.NotNil(t, request.DueDate)
	require.True(t, request.DueDate.Equal(tomorrowNine))
	require.Len(t, result.CreatedTasks, 1)
}
