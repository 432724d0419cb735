package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroundCmd_Use(t *testing.T) {
	assert.Equal(t, "ground [question]", groundCmd.Use)
}

func TestGroundCmd_Long(t *testing.T) {
	assert.Contains(t, groundCmd.Long, "relevance gate")
	assert.Contains(t, groundCmd.Long, "citation")
}

func TestGroundCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "ground")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestGroundCmd_HasJSONFlag(t *testing.T) {
	flag := groundCmd.Flags().Lookup("json")
	require.NotNil(t, flag, "json flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

func TestGroundCmd_FailsWithoutBundle(t *testing.T) {
	_, err := execute(t, "ground", "when does the garage close")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "run 'lexra ingest' first")
}
