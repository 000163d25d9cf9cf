package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadanan/mathmate/pkg/fix"
)

func TestValidateEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edit    fix.TextEdit
		wantErr string
	}{
		{"valid", fix.TextEdit{StartOffset: 0, EndOffset: 3}, ""},
		{"negative start", fix.TextEdit{StartOffset: -1, EndOffset: 2}, "start offset is negative"},
		{"inverted", fix.TextEdit{StartOffset: 3, EndOffset: 2}, "end offset is before start offset"},
		{"past end", fix.TextEdit{StartOffset: 0, EndOffset: 11}, "exceeds content length 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fix.ValidateEdits([]fix.TextEdit{tt.edit}, 10)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPrepareEdits_SortsWithoutMutating(t *testing.T) {
	t.Parallel()

	edits := []fix.TextEdit{
		{StartOffset: 6, EndOffset: 8},
		{StartOffset: 0, EndOffset: 2},
		{StartOffset: 3, EndOffset: 3},
	}

	sorted, err := fix.PrepareEdits(edits, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 6}, []int{sorted[0].StartOffset, sorted[1].StartOffset, sorted[2].StartOffset})
	assert.Equal(t, 6, edits[0].StartOffset)
}

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	assert.NoError(t, fix.DetectConflicts([]fix.TextEdit{
		{StartOffset: 0, EndOffset: 2},
		{StartOffset: 2, EndOffset: 4},
	}))
	assert.Error(t, fix.DetectConflicts([]fix.TextEdit{
		{StartOffset: 0, EndOffset: 3},
		{StartOffset: 2, EndOffset: 4},
	}))
}
