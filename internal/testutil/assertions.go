package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// AssertLogContains fails the test unless the captured log output contains
// every substring.
func AssertLogContains(t *testing.T, logs *SafeBuffer, substrings ...string) {
	t.Helper()

	out := logs.String()
	for _, s := range substrings {
		require.True(t, strings.Contains(out, s), "expected log output to contain %q\n%s", s, out)
	}
}

// Eventually waits for cond with a test-friendly default budget.
func Eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 5*time.Second, 10*time.Millisecond, msg)
}
