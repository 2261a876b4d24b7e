package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// fakeQuerier records calls instead of hitting a database
type fakeQuerier struct {
	created      []CreateParams
	assignees    []AddAssigneeParams
	createErr    error
	assigneeErr  error
	completeRows map[uuid.UUID]Task
}

func (f *fakeQuerier) Create(ctx context.Context, arg CreateParams) (Task, error) {
	if f.createErr != nil {
		return Task{}, f.createErr
	}
	f.created = append(f.created, arg)
	return Task{
		ID:          uuid.New(),
		GroupID:     arg.GroupID,
		Title:       arg.Title,
		Description: arg.Description,
		DueDate:     arg.DueDate,
		Priority:    arg.Priority,
		CreatedBy:   arg.CreatedBy,
	}, nil
}

func (f *fakeQuerier) AddAssignee(ctx context.Context, arg AddAssigneeParams) error {
	if f.assigneeErr != nil {
		return f.assigneeErr
	}
	f.assignees = append(f.assignees, arg)
	return nil
}

func (f *fakeQuerier) Complete(ctx context.Context, id uuid.UUID) (Task, error) {
	if t, ok := f.completeRows[id]; ok {
		t.CompletedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
		return t, nil
	}
	return Task{}, errors.New("no rows in result set")
}

func (f *fakeQuerier) GetByID(ctx context.Context, id uuid.UUID) (Task, error) {
	return Task{ID: id}, nil
}

func (f *fakeQuerier) ListAssignees(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(f.assignees))
	for _, a := range f.assignees {
		if a.TaskID == taskID {
			ids = append(ids, a.MemberID)
		}
	}
	return ids, nil
}

func (f *fakeQuerier) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]Task, error) {
	return nil, nil
}

func (f *fakeQuerier) ListDueSoon(ctx context.Context, window pgtype.Interval) ([]Task, error) {
	return nil, nil
}

type fakeNotifier struct {
	calls []struct {
		userIDs []uuid.UUID
		title   string
	}
	err error
}

func (f *fakeNotifier) CreateForUsers(ctx context.Context, userIDs []uuid.UUID, title, message string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, struct {
		userIDs []uuid.UUID
		title   string
	}{userIDs, title})
	return nil
}

func newTestService(q Querier, n Notifier) *Service {
	return &Service{
		logger:   zap.NewNop(),
		tracer:   otel.Tracer("task/service_test"),
		queries:  q,
		notifier: n,
	}
}

func TestService_Create(t *testing.T) {
	groupID := uuid.New()
	creator := uuid.New()
	m1 := uuid.New()
	m2 := uuid.New()

	tests := []struct {
		name           string
		req            CreateRequest
		wantErr        bool
		wantPriority   Priority
		wantAssignees  int
		wantNotifyCall bool
	}{
		{
			name: "Should default priority to medium",
			req: CreateRequest{
				GroupID:   groupID,
				Title:     "Book the venue",
				CreatedBy: creator,
			},
			wantPriority: PriorityMedium,
		},
		{
			name: "Should keep explicit priority",
			req: CreateRequest{
				GroupID:   groupID,
				Title:     "Print posters",
				Priority:  PriorityHigh,
				CreatedBy: creator,
			},
			wantPriority: PriorityHigh,
		},
		{
			name: "Should reject unknown priority",
			req: CreateRequest{
				GroupID:   groupID,
				Title:     "Bad task",
				Priority:  Priority("urgent"),
				CreatedBy: creator,
			},
			wantErr: true,
		},
		{
			name: "Should fan out assignees and notify them",
			req: CreateRequest{
				GroupID:    groupID,
				Title:      "Collect membership fees",
				AssignedTo: []uuid.UUID{m1, m2},
				CreatedBy:  creator,
			},
			wantPriority:   PriorityMedium,
			wantAssignees:  2,
			wantNotifyCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier := &fakeQuerier{}
			notifier := &fakeNotifier{}
			service := newTestService(querier, notifier)

			created, err := service.Create(context.Background(), tt.req)
			if tt.wantErr {
				require.Error(t, err)
				require.Empty(t, querier.created)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantPriority, created.Priority)
			require.Len(t, querier.assignees, tt.wantAssignees)

			if tt.wantNotifyCall {
				require.Len(t, notifier.calls, 1)
				require.ElementsMatch(t, tt.req.AssignedTo, notifier.calls[0].userIDs)
			} else {
				require.Empty(t, notifier.calls)
			}
		})
	}
}

func TestService_Create_NotifierFailureIsNotFatal(t *testing.T) {
	querier := &fakeQuerier{}
	notifier := &fakeNotifier{err: errors.New("inbox unavailable")}
	service := newTestService(querier, notifier)

	created, err := service.Create(context.Background(), CreateRequest{
		GroupID:    uuid.New(),
		Title:      "Send welcome mail",
		AssignedTo: []uuid.UUID{uuid.New()},
		CreatedBy:  uuid.New(),
	})

	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Len(t, querier.assignees, 1)
}

func TestService_Create_DueDate(t *testing.T) {
	querier := &fakeQuerier{}
	service := newTestService(querier, nil)

	dueDate := time.Now().Add(48 * time.Hour)
	created, err := service.Create(context.Background(), CreateRequest{
		GroupID:   uuid.New(),
		Title:     "Submit budget report",
		DueDate:   &dueDate,
		CreatedBy: uuid.New(),
	})

	require.NoError(t, err)
	require.True(t, created.DueDate.Valid)
	require.WithinDuration(t, dueDate, created.DueDate.Time, time.Second)
}
