package leaderboard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type fakeQuerier struct {
	rows []ListCompletedCountsRow
}

func (f *fakeQuerier) ListCompletedCounts(ctx context.Context, groupID uuid.UUID) ([]ListCompletedCountsRow, error) {
	return f.rows, nil
}

func row(username string, count int64) ListCompletedCountsRow {
	return ListCompletedCountsRow{
		MemberID:       uuid.New(),
		Username:       pgtype.Text{String: username, Valid: true},
		CompletedCount: count,
	}
}

func TestService_ListByGroup_Ranking(t *testing.T) {
	tests := []struct {
		name      string
		rows      []ListCompletedCountsRow
		wantRanks []int
	}{
		{
			name:      "Should rank members by completed count",
			rows:      []ListCompletedCountsRow{row("alice", 5), row("bob", 3), row("carol", 1)},
			wantRanks: []int{1, 2, 3},
		},
		{
			name:      "Should share rank on ties and skip the next",
			rows:      []ListCompletedCountsRow{row("alice", 4), row("bob", 4), row("carol", 2)},
			wantRanks: []int{1, 1, 3},
		},
		{
			name:      "Should handle members with no completed tasks",
			rows:      []ListCompletedCountsRow{row("alice", 2), row("bob", 0), row("carol", 0)},
			wantRanks: []int{1, 2, 2},
		},
		{
			name:      "Should return empty for empty group",
			rows:      nil,
			wantRanks: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &Service{
				logger:  zap.NewNop(),
				queries: &fakeQuerier{rows: tt.rows},
				tracer:  otel.Tracer("leaderboard/service_test"),
			}

			entries, err := service.ListByGroup(context.Background(), uuid.New())
			require.NoError(t, err)
			require.Len(t, entries, len(tt.wantRanks))
			for i, want := range tt.wantRanks {
				require.Equal(t, want, entries[i].Rank, "rank of %s", entries[i].Username)
			}
		})
	}
}
