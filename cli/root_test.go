package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `sale_date,property_id,price,sale_validity
2023-01-15,0101 01 0001,400000,VALID
2023-01-20,0101 01 0002,"$420,000",VALID
2023-02-03,0101 01 0003,10,NOT MARKET SALE
2023-03-01,0101 01 0004,500000,VALID
not a date,0101 01 0005,1,VALID
`

// useDataset points configuration at a fresh CSV file and isolates the test
// from any .env or config file in the working directory.
func useDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(salesCSV), 0o644))

	for _, key := range []string{"DATA_SOURCE", "CONFIG_FILE", "LOG_FILE", "LOG_LEVEL", "RECENT_LIMIT", "SALES_TABLE", "DATA_SHEET"} {
		t.Setenv(key, "")
	}
	t.Setenv("DATA_PATH", path)
	t.Setenv("EXPORT_DIR", filepath.Join(dir, "output"))
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sales-dashboard", cmd.Use)
	assert.Contains(t, cmd.Long, "monthly average sale price")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"tui", "report", "export", "serve", "snapshot", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("env"))
}

func TestFilterFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"report", "export"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)

		for _, flag := range []string{"start", "end", "type", "all-types", "limit"} {
			assert.NotNil(t, sub.Flags().Lookup(flag), "%s --%s", name, flag)
		}
		assert.Equal(t, "t", sub.Flags().Lookup("type").Shorthand)
		assert.Equal(t, "n", sub.Flags().Lookup("limit").Shorthand)
	}

	exportCmd, _, err := cmd.Find([]string{"export"})
	require.NoError(t, err)
	assert.Equal(t, "o", exportCmd.Flags().Lookup("out").Shorthand)

	snapshotCmd, _, err := cmd.Find([]string{"snapshot"})
	require.NoError(t, err)
	assert.Equal(t, "1280", snapshotCmd.Flags().Lookup("width").DefValue)
	assert.Equal(t, "900", snapshotCmd.Flags().Lookup("height").DefValue)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    dev")
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := run(t, "version", "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestUnknownFlagIsCommandError(t *testing.T) {
	_, _, err := run(t, "report", "--bogus")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReportText(t *testing.T) {
	useDataset(t)

	out, logs, err := run(t, "report")
	require.NoError(t, err)

	assert.Contains(t, out, "Date range : 2023-01-15 to 2023-03-01")
	assert.Contains(t, out, "Sale types : VALID")
	assert.Contains(t, out, "Total sales     : 3")
	assert.Contains(t, out, "Total volume    : $1,320,000")
	assert.Contains(t, out, "Avg. sale price : $440,000")
	assert.Contains(t, out, "0101 01 0004")
	assert.NotContains(t, out, "0101 01 0003")

	assert.Contains(t, logs, "dropping sale with unparseable date")
}

func TestReportJSON(t *testing.T) {
	useDataset(t)

	out, _, err := run(t, "report", "--format", "json", "--all-types", "--limit", "2")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Summary struct {
				TotalSales  int     `json:"total_sales"`
				TotalVolume float64 `json:"total_volume"`
			} `json:"summary"`
			Monthly []map[string]any `json:"monthly"`
			Recent  []map[string]any `json:"recent"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 4, resp.Data.Summary.TotalSales)
	assert.Equal(t, 1320010.0, resp.Data.Summary.TotalVolume)
	assert.Len(t, resp.Data.Monthly, 3)
	require.Len(t, resp.Data.Recent, 2)
	assert.Equal(t, "0101 01 0004", resp.Data.Recent[0]["property_id"])
	assert.Equal(t, "2023-01", resp.Data.Monthly[0]["month"])
}

func TestReportFilters(t *testing.T) {
	useDataset(t)

	out, _, err := run(t, "report", "--start", "2023-01-16", "--end", "2023-02-28", "-t", "NOT MARKET SALE", "-t", "VALID")
	require.NoError(t, err)
	assert.Contains(t, out, "Total sales     : 2")
	assert.Contains(t, out, "Sale types : NOT MARKET SALE, VALID")

	out, _, err = run(t, "report", "-t", "FORECLOSURE")
	require.NoError(t, err)
	assert.Contains(t, out, "Total sales     : 0")
	assert.Contains(t, out, "No sales match the current filters")
}

func TestReportRejectsBadFilters(t *testing.T) {
	useDataset(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad start", []string{"report", "--start", "01/02/2023"}},
		{"inverted range", []string{"report", "--start", "2023-03-01", "--end", "2023-01-01"}},
		{"negative limit", []string{"report", "--limit", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestReportMissingDataset(t *testing.T) {
	useDataset(t)
	t.Setenv("DATA_PATH", filepath.Join(t.TempDir(), "missing.db"))

	_, _, err := run(t, "report")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestExportCSV(t *testing.T) {
	dir := useDataset(t)
	out := filepath.Join(dir, "recent.csv")

	stdout, _, err := run(t, "export", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "sale_date,property_id,price,sale_type\n"+
		"2023-03-01,0101 01 0004,500000,VALID\n"+
		"2023-01-20,0101 01 0002,420000,VALID\n"+
		"2023-01-15,0101 01 0001,400000,VALID\n", string(data))
}

func TestExportDefaultPath(t *testing.T) {
	dir := useDataset(t)

	stdout, _, err := run(t, "export", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Path string `json:"path"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, filepath.Join(dir, "output"), filepath.Dir(resp.Data.Path))
	assert.Equal(t, ".xlsx", filepath.Ext(resp.Data.Path))
	assert.FileExists(t, resp.Data.Path)
}

func TestExportUnsupportedType(t *testing.T) {
	dir := useDataset(t)

	_, _, err := run(t, "export", "--out", filepath.Join(dir, "out.pdf"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := WrapExitError(ExitFailure, "load", errors.New("disk"))
	assert.Equal(t, "load: disk", wrapped.Error())
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}

func TestLocalURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/", localURL(":8080"))
	assert.Equal(t, "http://127.0.0.1:9000/", localURL("127.0.0.1:9000"))
}
