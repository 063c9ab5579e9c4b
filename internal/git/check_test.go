package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckGit(t *testing.T) {
	t.Parallel()
	// The test environment needs a recent git anyway.
	assert.NoError(t, CheckGit(context.Background()))
}

func TestCheckVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		output  string
		wantErr bool
	}{
		{output: "git version 2.39.2"},
		{output: "git version 2.39.3 (Apple Git-145)"},
		{output: "git version 2.45.1.windows.1"},
		{output: "git version 2.22"},
		{output: "git version 2.21.4", wantErr: true},
		{output: "git version 1.9.5", wantErr: true},
		{output: "not git", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			t.Parallel()
			err := checkVersion(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
