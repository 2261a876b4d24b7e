package notification_test

import (
	"net/http/httptest"
	"testing"

	"ClubHub/club-system-backend/internal/notification"

	"github.com/stretchr/testify/require"
)

func TestParseFilterRequest(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantIsRead *bool
		wantErr    bool
	}{
		{name: "Should leave filter empty without query", query: ""},
		{name: "Should parse isRead=true", query: "?isRead=true", wantIsRead: boolPtr(true)},
		{name: "Should parse isRead=0", query: "?isRead=0", wantIsRead: boolPtr(false)},
		{name: "Should reject non-boolean value", query: "?isRead=yes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/notifications"+tt.query, nil)

			filter, err := notification.ParseFilterRequest(r)
			if tt.wantErr {
				require.Error(t, err)
				var invalid notification.ErrInvalidBoolParameter
				require.ErrorAs(t, err, &invalid)
				require.Equal(t, "isRead", invalid.Parameter)
				return
			}
			require.NoError(t, err)

			if tt.wantIsRead == nil {
				require.Nil(t, filter.IsRead)
			} else {
				require.NotNil(t, filter.IsRead)
				require.Equal(t, *tt.wantIsRead, *filter.IsRead)
			}
		})
	}
}

func boolPtr(b bool) *bool {
	return &b
}
