package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFreightTimeoutError_Message(t *testing.T) {
	t.Parallel()

	err := &FreightTimeoutError{
		RepoURL: "ghcr.io/vpittamp/backstage-app",
		Tag:     "dev-20240101-120000-abc1234",
		Elapsed: 501*time.Millisecond + 300*time.Microsecond,
		Timeout: 500 * time.Millisecond,
	}

	// Sub-second waits must not be reported as whole seconds.
	assert.Equal(t,
		"no freight references ghcr.io/vpittamp/backstage-app:dev-20240101-120000-abc1234 "+
			"after 501ms (timeout 500ms)",
		err.Error(),
	)
}

func TestPromotionTimeoutError_Message(t *testing.T) {
	t.Parallel()

	err := &PromotionTimeoutError{
		Stage:   "production",
		Freight: "freight-abc",
		Elapsed: 2*time.Minute + 1500*time.Millisecond,
		Timeout: 2 * time.Minute,
	}

	assert.Equal(t,
		"stage production did not converge on freight freight-abc after 2m1.5s (timeout 2m0s)",
		err.Error(),
	)
}
