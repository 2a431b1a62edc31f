//go:build unit || e2e

package helper

import (
	"testing"

	"slot-engine/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

// RequireErrorIs matches errors attached with errs.Mark as well as wrapped ones.
func RequireErrorIs(t *testing.T, err, target error) {
	t.Helper()

	require.Error(t, err)
	require.Truef(t, errs.Is(err, target), "expected %v in error chain, got: %v", target, err)
}
