package node_test

import (
	"testing"
	"time"

	"ClubHub/club-system-backend/internal/group"
	"ClubHub/club-system-backend/internal/task"
	"ClubHub/club-system-backend/internal/workflow/node"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func roster(members ...group.Member) []group.Member {
	return members
}

func member(role group.MemberRole) group.Member {
	return group.Member{ID: uuid.New(), Username: "someone", Role: role}
}

func TestNew_Defaults(t *testing.T) {
	position := node.Position{X: 300, Y: 200}

	tests := []struct {
		name  string
		kind  node.Kind
		check func(t *testing.T, n node.Node)
	}{
		{
			name: "Should create start node with empty payload",
			kind: node.KindStart,
			check: func(t *testing.T, n node.Node) {
				require.IsType(t, &node.StartPayload{}, n.Payload)
				require.Equal(t, "Start", n.Label)
			},
		},
		{
			name: "Should create task node with medium priority and no assignees",
			kind: node.KindTask,
			check: func(t *testing.T, n node.Node) {
				payload := n.Payload.(*node.TaskPayload)
				require.Equal(t, task.PriorityMedium, payload.Priority)
				require.Empty(t, payload.AssignedTo)
				require.NotNil(t, payload.AssignedTo)
				require.Nil(t, payload.DueDate)
				require.Empty(t, payload.Title)
			},
		},
		{
			name: "Should create condition node defaulting to priority kind",
			kind: node.KindCondition,
			check: func(t *testing.T, n node.Node) {
				payload := n.Payload.(*node.ConditionPayload)
				require.Equal(t, node.ConditionKindPriority, payload.ConditionKind)
				require.Empty(t, payload.Value)
			},
		},
		{
			name: "Should create notification node defaulting to all recipients",
			kind: node.KindNotification,
			check: func(t *testing.T, n node.Node) {
				payload := n.Payload.(*node.NotificationPayload)
				require.Equal(t, node.NotificationTypeAll, payload.NotificationType)
				require.Empty(t, payload.Recipients)
			},
		},
		{
			name: "Should create approval node with no approvers",
			kind: node.KindApproval,
			check: func(t *testing.T, n node.Node) {
				payload := n.Payload.(*node.ApprovalPayload)
				require.Empty(t, payload.Approvers)
			},
		},
		{
			name: "Should create timer node defaulting to one hour",
			kind: node.KindTimer,
			check: func(t *testing.T, n node.Node) {
				payload := n.Payload.(*node.TimerPayload)
				require.Equal(t, 1, payload.Duration)
				require.Equal(t, node.TimerUnitHours, payload.Unit)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := node.New(tt.kind, position)
			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, created.ID)
			require.Equal(t, tt.kind, created.Kind)
			require.Equal(t, position, created.Position)
			tt.check(t, created)
		})
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := node.New(node.Kind("loop"), node.Position{})
	require.Error(t, err)
}

func TestNew_FreshIDs(t *testing.T) {
	first, err := node.New(node.KindTask, node.Position{})
	require.NoError(t, err)
	second, err := node.New(node.KindTask, node.Position{})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestPayload_Merge_IsShallow(t *testing.T) {
	assignee := uuid.New()
	payload := &node.TaskPayload{
		Title:      "Write report",
		Priority:   task.PriorityHigh,
		AssignedTo: []uuid.UUID{assignee},
	}

	err := payload.Merge(map[string]interface{}{"title": "Write the annual report"})
	require.NoError(t, err)

	require.Equal(t, "Write the annual report", payload.Title)
	require.Equal(t, task.PriorityHigh, payload.Priority)
	require.Equal(t, []uuid.UUID{assignee}, payload.AssignedTo)
}

func TestPayload_Merge_EmptyIsNoOp(t *testing.T) {
	dueDate := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	payload := &node.TaskPayload{
		Title:    "Write report",
		DueDate:  &dueDate,
		Priority: task.PriorityLow,
	}
	before := *payload

	err := payload.Merge(map[string]interface{}{})
	require.NoError(t, err)
	require.Equal(t, before.Title, payload.Title)
	require.Equal(t, before.Priority, payload.Priority)
	require.Equal(t, *before.DueDate, *payload.DueDate)
}

func TestPayload_Merge_RejectsUnknownFields(t *testing.T) {
	payload := node.NewTaskPayload()
	err := payload.Merge(map[string]interface{}{"titel": "typo"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid field")

	timer := node.NewTimerPayload()
	err = timer.Merge(map[string]interface{}{"delay": 5})
	require.Error(t, err)
}

func TestPayload_Validate(t *testing.T) {
	plainMember := member(group.MemberRoleMember)
	leader := member(group.MemberRoleLeader)
	owner := member(group.MemberRoleOwner)
	groupRoster := roster(plainMember, leader, owner)
	dueDate := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name    string
		payload node.Payload
		wantErr string
	}{
		{
			name: "Should accept complete task payload",
			payload: &node.TaskPayload{
				Title:      "Write report",
				DueDate:    &dueDate,
				Priority:   task.PriorityMedium,
				AssignedTo: []uuid.UUID{plainMember.ID},
			},
		},
		{
			name:    "Should reject task without title",
			payload: &node.TaskPayload{DueDate: &dueDate, Priority: task.PriorityMedium, AssignedTo: []uuid.UUID{plainMember.ID}},
			wantErr: "title",
		},
		{
			name:    "Should reject task without assignees",
			payload: &node.TaskPayload{Title: "Write report", DueDate: &dueDate, Priority: task.PriorityMedium},
			wantErr: "assignee",
		},
		{
			name:    "Should reject task without due date",
			payload: &node.TaskPayload{Title: "Write report", Priority: task.PriorityMedium, AssignedTo: []uuid.UUID{plainMember.ID}},
			wantErr: "due date",
		},
		{
			name: "Should reject task assigned to a leader",
			payload: &node.TaskPayload{
				Title:      "Write report",
				DueDate:    &dueDate,
				Priority:   task.PriorityMedium,
				AssignedTo: []uuid.UUID{leader.ID},
			},
			wantErr: "plain member",
		},
		{
			name:    "Should accept condition with priority kind and value",
			payload: &node.ConditionPayload{ConditionKind: node.ConditionKindPriority, Value: "high"},
		},
		{
			name:    "Should reject condition with priority kind and no value",
			payload: &node.ConditionPayload{ConditionKind: node.ConditionKindPriority},
			wantErr: "value is required",
		},
		{
			name:    "Should accept assignedTo condition without a value",
			payload: &node.ConditionPayload{ConditionKind: node.ConditionKindAssignedTo},
		},
		{
			name:    "Should accept notification to all without recipients",
			payload: &node.NotificationPayload{Title: "Meeting", Message: "Room 101", NotificationType: node.NotificationTypeAll},
		},
		{
			name:    "Should reject specific notification without recipients",
			payload: &node.NotificationPayload{Title: "Meeting", Message: "Room 101", NotificationType: node.NotificationTypeSpecific},
			wantErr: "recipient",
		},
		{
			name: "Should accept approval with leader approver",
			payload: &node.ApprovalPayload{
				Title:       "Budget",
				Description: "Approve the budget",
				Approvers:   []uuid.UUID{leader.ID},
			},
		},
		{
			name: "Should reject approval with plain member approver",
			payload: &node.ApprovalPayload{
				Title:       "Budget",
				Description: "Approve the budget",
				Approvers:   []uuid.UUID{plainMember.ID},
			},
			wantErr: "leader or owner",
		},
		{
			name:    "Should reject timer with zero duration",
			payload: &node.TimerPayload{Duration: 0, Unit: node.TimerUnitDays},
			wantErr: "positive",
		},
		{
			name:    "Should accept default timer payload",
			payload: node.NewTimerPayload(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate(groupRoster)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetGroup_ClearsMemberReferences(t *testing.T) {
	oldGroup := uuid.New()
	newGroup := uuid.New()

	taskPayload := &node.TaskPayload{
		Title:      "Write report",
		GroupID:    oldGroup,
		AssignedTo: []uuid.UUID{uuid.New(), uuid.New()},
	}
	taskPayload.SetGroup(newGroup)
	require.Equal(t, newGroup, taskPayload.GroupID)
	require.Empty(t, taskPayload.AssignedTo)
	require.Equal(t, "Write report", taskPayload.Title)

	notificationPayload := &node.NotificationPayload{
		Title:      "Meeting",
		GroupID:    oldGroup,
		Recipients: []uuid.UUID{uuid.New()},
	}
	notificationPayload.SetGroup(newGroup)
	require.Equal(t, newGroup, notificationPayload.GroupID)
	require.Empty(t, notificationPayload.Recipients)

	approvalPayload := &node.ApprovalPayload{
		Title:     "Budget",
		GroupID:   oldGroup,
		Approvers: []uuid.UUID{uuid.New()},
	}
	approvalPayload.SetGroup(newGroup)
	require.Equal(t, newGroup, approvalPayload.GroupID)
	require.Empty(t, approvalPayload.Approvers)
}

func TestClone_IsIndependent(t *testing.T) {
	original := &node.TaskPayload{
		Title:      "Write report",
		AssignedTo: []uuid.UUID{uuid.New()},
	}

	clone := original.Clone().(*node.TaskPayload)
	clone.Title = "Changed"
	clone.AssignedTo[0] = uuid.New()

	require.Equal(t, "Write report", original.Title)
	require.NotEqual(t, original.AssignedTo[0], clone.AssignedTo[0])
}
