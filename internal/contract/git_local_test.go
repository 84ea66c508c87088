package contract_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/codeyear/codeyear/internal/contract"
	"github.com/stretchr/testify/assert"
)

func TestLocalGitClientRunHonorsCancellation(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := contract.NewLocalGitClient()
	_, err := client.Run(ctx, t.TempDir(), "status")
	assert.Error(t, err)
}
