package cli

import (
	"bytes"
	"path/filepath"
	"testing"
)

// runCLI executes the root command with the given args and returns whatever
// was written to stdout. The test database path should be passed via --db.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd := newRootCmd()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// testDBPath returns a fresh SQLite file path under the test temp dir.
func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "graph.sqlite")
}
