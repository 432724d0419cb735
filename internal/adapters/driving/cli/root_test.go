package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command against an isolated config directory
// so tests never touch the real ~/.lexra. The returned buffer holds
// everything the command printed.
func execute(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()

	configDir := t.TempDir()
	dataDir := t.TempDir()

	config := "data_dir = " + strconv.Quote(dataDir) + "\n"
	err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o600)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--config-dir", configDir}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
		flagConfigDir = ""
	}()

	return buf, rootCmd.Execute()
}
