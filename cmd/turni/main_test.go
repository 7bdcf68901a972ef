package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/turni-go/internal/config"
	"github.com/ukaji3/turni-go/internal/testutil"
	"github.com/ukaji3/turni-go/pkg/turni"
)

func scheduleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteDocx(t, dir, "57. 25:11 - 29:11.docx", [][]string{
		testutil.WeekHeader,
		{"Mattina", "Rossi", "Bianchi", "", "", ""},
		{"Guardia", "", "", "", "", "Rossi"},
	})
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestExtractJSON(t *testing.T) {
	out, err := execute(t, "extract", scheduleDir(t), "--json", "--employee", "Rossi")
	require.NoError(t, err)

	var result turni.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Events, 4)
	assert.Equal(t, "Rossi", result.Employee)
}

func TestExtractWorkbook(t *testing.T) {
	dir := scheduleDir(t)
	path := filepath.Join(t.TempDir(), "report.xlsx")
	metricsPath := filepath.Join(t.TempDir(), "turni.prom")

	out, err := execute(t, "extract", dir, "-o", path, "--mode", "matrix", "--metrics-file", metricsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 documents: 1 processed, 0 skipped, 0 failed")
	assert.Contains(t, out, "written to "+path)

	_, err = os.Stat(path)
	assert.NoError(t, err)
	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `turni_analysis_runs_total{result="ok"} 1`)
}

func TestExtractSkipsOwnReport(t *testing.T) {
	dir := scheduleDir(t)
	path := filepath.Join(dir, "report.xlsx")

	for i := 0; i < 2; i++ {
		out, err := execute(t, "extract", dir, "-o", path)
		require.NoError(t, err)
		assert.Contains(t, out, "1 documents: 1 processed, 0 skipped, 0 failed")
	}

	t.Chdir(dir)
	for i := 0; i < 2; i++ {
		out, err := execute(t, "extract", ".")
		require.NoError(t, err)
		assert.Contains(t, out, "1 documents: 1 processed, 0 skipped, 0 failed")
		assert.Contains(t, out, "written to roster_shifts.xlsx")
	}
}

func TestReportPath(t *testing.T) {
	tests := []struct {
		output   string
		employee string
		jsonOut  bool
		expected string
	}{
		{"out.xlsx", "", false, "out.xlsx"},
		{"", "", false, "roster_shifts.xlsx"},
		{"", "Rossi Mario", false, "Rossi_Mario_shifts.xlsx"},
		{"", "Rossi", true, ""},
		{"out.json", "", true, "out.json"},
	}
	for _, tt := range tests {
		c := config.New()
		c.Output = tt.output
		c.Employee = tt.employee
		assert.Equal(t, tt.expected, reportPath(c, extractFlags{jsonOut: tt.jsonOut}), "reportPath(%+v)", tt)
	}
}

func TestExtractErrors(t *testing.T) {
	dir := scheduleDir(t)

	_, err := execute(t, "extract", dir, "--employee", "Esposito", "--json")
	assert.EqualError(t, err, "no shifts found for employee: Esposito")

	_, err = execute(t, "extract", dir, "--mode", "weekly")
	assert.ErrorContains(t, err, "invalid mode")

	_, err = execute(t, "extract", filepath.Join(dir, "missing"))
	assert.ErrorContains(t, err, "failed to list documents")
}
