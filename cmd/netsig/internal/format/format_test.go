package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	f := New(&out, &bytes.Buffer{}, ModeJSON, false, false)

	require.NoError(t, f.PrintJSON(map[string]int{"port": 80}))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 80, decoded["port"])
}

func TestPrintTable_TableMode(t *testing.T) {
	var out bytes.Buffer
	f := New(&out, &bytes.Buffer{}, ModeTable, false, false)

	require.NoError(t, f.PrintTable([]string{"name", "port"}, [][]string{{"HTTP", "80"}, {"SSH", "22"}}))

	got := out.String()
	assert.Contains(t, got, "NAME")
	assert.Contains(t, got, "PORT")
	assert.Contains(t, got, "HTTP")
	assert.Contains(t, got, "22")
}

func TestPrintTable_JSONModeEmitsStructuredRows(t *testing.T) {
	var out bytes.Buffer
	f := New(&out, &bytes.Buffer{}, ModeJSON, false, false)

	require.NoError(t, f.PrintTable([]string{"name"}, [][]string{{"HTTP"}}))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "HTTP", rows[0]["name"])
}

func TestPrintSummary_QuietSuppresses(t *testing.T) {
	var out bytes.Buffer
	f := New(&out, &bytes.Buffer{}, ModeTable, true, false)

	require.NoError(t, f.PrintSummary("done"))
	assert.Empty(t, out.String())
}

func TestPrintSummary_JSONModeSuppresses(t *testing.T) {
	var out bytes.Buffer
	f := New(&out, &bytes.Buffer{}, ModeJSON, false, false)

	require.NoError(t, f.PrintSummary("done"))
	assert.Empty(t, out.String(), "summaries must not corrupt JSON output")
}

func TestPrintError_TableModeGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	f := New(&out, &errOut, ModeTable, false, false)

	require.NoError(t, f.PrintError(errors.New("boom")))
	assert.Empty(t, out.String())
	assert.True(t, strings.Contains(errOut.String(), "boom"))
}

func TestPrintError_JSONMode(t *testing.T) {
	var out bytes.Buffer
	f := New(&out, &bytes.Buffer{}, ModeJSON, false, false)

	require.NoError(t, f.PrintError(errors.New("boom")))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "boom", decoded["error"])
}
