package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(&ExitError{Code: ExitCommandError}))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))

	wrapped := fmt.Errorf("outer: %w", &ExitError{Code: ExitCommandError, Message: "inner"})
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestExitErrorMessage(t *testing.T) {
	err := WrapExitError(ExitFailure, "validating", errors.New("boom"))
	assert.Equal(t, "validating: boom", err.Error())
	assert.Equal(t, "bare message", (&ExitError{Message: "bare message"}).Error())
}

func TestFormatterJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.JSON(map[string]int{"tokens": 3}))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestFormatterTextSuppressedInJSONMode(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	f.Textf("human readable %d\n", 42)
	assert.Empty(t, buf.String())

	f.Format = "text"
	f.Textf("human readable %d\n", 42)
	assert.Equal(t, "human readable 42\n", buf.String())
}
