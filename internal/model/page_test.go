package model

import "testing"

// TestPageStatusString tests the stored form of each status.
func TestPageStatusString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   PageStatus
		expected string
	}{
		{PageAccepted, "accepted"},
		{PageDuplicate, "duplicate"},
		{PageFailed, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}
