package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// run executes the CLI with fresh flag state and returns the exit status and
// everything printed on stdout.
func run(t *testing.T, args ...string) (int, string) {
	t.Helper()

	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	rootCmd.Flags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)

	var stdout bytes.Buffer
	code := execute(args, &stdout)
	return code, stdout.String()
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestRunWithoutRecords(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"branch.lst": "001,Tokyo\n"})

	code, out := run(t, dir)

	assert.Equal(t, 0, code)
	assert.Empty(t, out)
	assert.Equal(t, "001,Tokyo,0\n", readFile(t, dir, "branch.out"))
}

func TestRunAccumulates(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"branch.lst":   "001,Tokyo\n",
		"00000001.rcd": "001\n300\n",
		"00000002.rcd": "001\n450\n",
	})

	code, out := run(t, dir)

	assert.Equal(t, 0, code)
	assert.Empty(t, out)
	assert.Equal(t, "001,Tokyo,750\n", readFile(t, dir, "branch.out"))
}

func TestRunWithCommodity(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"branch.lst":    "001,Tokyo\n002,Osaka\n",
		"commodity.lst": "SFT00001,OS\nSFT00002,Office\n",
		"00000001.rcd":  "001\nSFT00002\n300\n",
		"00000002.rcd":  "002\nSFT00002\n450\n",
	})

	code, out := run(t, "--commodity", dir)

	assert.Equal(t, 0, code)
	assert.Empty(t, out)
	assert.Equal(t, "001,Tokyo,300\n002,Osaka,450\n", readFile(t, dir, "branch.out"))
	assert.Equal(t, "SFT00001,OS,0\nSFT00002,Office,750\n", readFile(t, dir, "commodity.out"))
}

func TestRunIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"branch.lst":    "001,Tokyo\n",
		"00000001.rcd":  "001\n100\n",
		"00000003.txt":  "ignored",
		"0000002.rcd":   "ignored",
		"00000004.rcdx": "ignored",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "00000002.rcd"), 0o755))

	code, out := run(t, dir)

	assert.Equal(t, 0, code, out)
	assert.Equal(t, "001,Tokyo,100\n", readFile(t, dir, "branch.out"))
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		files   map[string]string
		message string
	}{
		{
			name:    "missing branch definition",
			files:   map[string]string{"00000001.rcd": "001\n100\n"},
			message: "branch definition file does not exist",
		},
		{
			name:    "invalid branch definition",
			files:   map[string]string{"branch.lst": "01,Tokyo\n"},
			message: "branch definition file has an invalid format",
		},
		{
			name:    "missing commodity definition",
			args:    []string{"--commodity"},
			files:   map[string]string{"branch.lst": "001,Tokyo\n"},
			message: "commodity definition file does not exist",
		},
		{
			name: "gap in sequence",
			files: map[string]string{
				"branch.lst":   "001,Tokyo\n",
				"00000001.rcd": "001\n100\n",
				"00000003.rcd": "001\n100\n",
			},
			message: "sales file names are not consecutive",
		},
		{
			name: "record with too many lines",
			files: map[string]string{
				"branch.lst":   "001,Tokyo\n",
				"00000001.rcd": "001\n100\n",
				"00000002.rcd": "001\n100\nextra\nextra\n",
			},
			message: "00000002.rcd has an invalid format",
		},
		{
			name: "unknown branch code",
			files: map[string]string{
				"branch.lst":   "001,Tokyo\n",
				"00000001.rcd": "999\n100\n",
			},
			message: "00000001.rcd has an invalid branch code",
		},
		{
			name: "unknown commodity code",
			args: []string{"--commodity"},
			files: map[string]string{
				"branch.lst":    "001,Tokyo\n",
				"commodity.lst": "SFT00001,OS\n",
				"00000001.rcd":  "001\nXXX00001\n100\n",
			},
			message: "00000001.rcd has an invalid commodity code",
		},
		{
			name: "non numeric amount",
			files: map[string]string{
				"branch.lst":   "001,Tokyo\n",
				"00000001.rcd": "001\n1a0\n",
			},
			message: "an unexpected error occurred",
		},
		{
			name: "total overflow",
			files: map[string]string{
				"branch.lst":   "001,Tokyo\n",
				"00000001.rcd": "001\n9999999999\n",
				"00000002.rcd": "001\n2\n",
			},
			message: "total amount exceeded 10 digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files)

			code, out := run(t, append(tt.args, dir)...)

			assert.Equal(t, 1, code)
			assert.Equal(t, tt.message+"\n", out)
			assert.NoFileExists(t, filepath.Join(dir, "branch.out"))
			assert.NoFileExists(t, filepath.Join(dir, "commodity.out"))
		})
	}
}

func TestRunArgumentCount(t *testing.T) {
	for _, args := range [][]string{{}, {"a", "b"}} {
		code, out := run(t, args...)

		assert.Equal(t, 1, code)
		assert.Equal(t, "an unexpected error occurred\n", out)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	code, out := run(t, filepath.Join(t.TempDir(), "nope"))

	assert.Equal(t, 1, code)
	assert.Equal(t, "branch definition file does not exist\n", out)
}

func TestRunWithConfig(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"regions.lst":  "KT,Kanto\nKS,Kansai\n",
		"00000001.rcd": "KS\n40\n",
	})

	cfgPath := filepath.Join(t.TempDir(), "dims.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
dimensions:
  - label: region
    master_file: regions.lst
    output_file: regions.out
    code_pattern: '[A-Z]{2}'
`), 0o644))

	code, out := run(t, "--config", cfgPath, dir)

	assert.Equal(t, 0, code, out)
	assert.Equal(t, "KT,Kanto,0\nKS,Kansai,40\n", readFile(t, dir, "regions.out"))
	assert.NoFileExists(t, filepath.Join(dir, "branch.out"))
}

func TestRunWithBadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"branch.lst": "001,Tokyo\n"})

	code, out := run(t, "--config", filepath.Join(dir, "missing.yaml"), dir)

	assert.Equal(t, 1, code)
	assert.Equal(t, "an unexpected error occurred\n", out)
	assert.NoFileExists(t, filepath.Join(dir, "branch.out"))
}

func TestRunConfigAndCommodityConflict(t *testing.T) {
	dir := t.TempDir()

	code, out := run(t, "--config", "dims.yaml", "--commodity", dir)

	assert.Equal(t, 1, code)
	assert.Equal(t, "an unexpected error occurred\n", out)
}

func TestRunWritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"branch.lst":   "001,Tokyo\n",
		"00000001.rcd": "001\n300\n",
	})

	code, out := run(t, "--xlsx", "summary.xlsx", dir)
	require.Equal(t, 0, code, out)

	f, err := excelize.OpenFile(filepath.Join(dir, "summary.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("branch")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Code", "Name", "Total"}, {"001", "Tokyo", "300"}}, rows)
}

func TestVersion(t *testing.T) {
	code, out := run(t, "version")

	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "Sales Aggregation\n"))
	assert.Contains(t, out, "Version:    "+Version)
}
