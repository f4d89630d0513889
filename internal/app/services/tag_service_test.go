package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduassist/backend/internal/pkg/apperrors"
)

func TestNormalizeTagNames(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr error
	}{
		{name: "empty", raw: "", want: nil},
		{name: "whitespace only", raw: "   ", want: nil},
		{name: "single", raw: "wifi", want: []string{"wifi"}},
		{name: "lowercased", raw: "WiFi", want: []string{"wifi"}},
		{name: "trimmed and deduplicated", raw: "Foo, bar, foo", want: []string{"foo", "bar"}},
		{name: "hyphens allowed", raw: "exam-schedule,lab-3", want: []string{"exam-schedule", "lab-3"}},
		{name: "empty segments skipped", raw: "wifi,,printer,", want: []string{"wifi", "printer"}},
		{name: "spaces inside rejected", raw: "exam schedule", wantErr: apperrors.ErrInvalidTagName},
		{name: "punctuation rejected", raw: "wifi!", wantErr: apperrors.ErrInvalidTagName},
		{name: "underscores rejected", raw: "exam_schedule", wantErr: apperrors.ErrInvalidTagName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTagNames(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
