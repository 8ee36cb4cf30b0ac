package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/sales-aggregation/internal/config"
	"github.com/ginjaninja78/sales-aggregation/internal/errs"
	"github.com/ginjaninja78/sales-aggregation/internal/master"
	"github.com/ginjaninja78/sales-aggregation/pkg/utils"
)

func loadTables(t *testing.T, withCommodity bool) []*master.Table {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "branch.lst"), []byte("001,Tokyo\n002,Osaka\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "commodity.lst"), []byte("SFT00001,OS\nSFT00002,Office\n"), 0o644))

	tables, err := master.LoadAll(utils.NewFileManager(dir), config.Default(withCommodity).Dimensions)
	require.NoError(t, err)
	return tables
}

func TestValidateSingleDimension(t *testing.T) {
	v := NewValidator(loadTables(t, false))
	assert.Equal(t, 2, v.LineCount())

	rec, err := v.Validate("00000001.rcd", []string{"002", "12345"})
	require.NoError(t, err)

	assert.Equal(t, "00000001.rcd", rec.File)
	assert.Equal(t, []string{"002"}, rec.Codes)
	assert.Equal(t, "12345", rec.Amount.String())
}

func TestValidateTwoDimensions(t *testing.T) {
	v := NewValidator(loadTables(t, true))
	assert.Equal(t, 3, v.LineCount())

	rec, err := v.Validate("00000001.rcd", []string{"001", "SFT00002", "300"})
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "SFT00002"}, rec.Codes)
	assert.Equal(t, "300", rec.Amount.String())
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name      string
		commodity bool
		lines     []string
		kind      errs.Kind
		dimension string
		message   string
	}{
		{"too few lines", false, []string{"001"}, errs.KindRecordFormat, "", "00000009.rcd has an invalid format"},
		{"too many lines", false, []string{"001", "1", "2", "3"}, errs.KindRecordFormat, "", "00000009.rcd has an invalid format"},
		{"empty file", false, nil, errs.KindRecordFormat, "", "00000009.rcd has an invalid format"},
		{"two lines in two dimension mode", true, []string{"001", "300"}, errs.KindRecordFormat, "", "00000009.rcd has an invalid format"},
		{"unknown branch", false, []string{"999", "300"}, errs.KindUnknownCode, "branch", "00000009.rcd has an invalid branch code"},
		{"unknown commodity", true, []string{"001", "SFT99999", "300"}, errs.KindUnknownCode, "commodity", "00000009.rcd has an invalid commodity code"},
		{"branch checked before commodity", true, []string{"999", "SFT99999", "300"}, errs.KindUnknownCode, "branch", "00000009.rcd has an invalid branch code"},
		{"negative amount", false, []string{"001", "-1"}, errs.KindUnknown, "", "an unexpected error occurred"},
		{"decimal amount", false, []string{"001", "1.5"}, errs.KindUnknown, "", "an unexpected error occurred"},
		{"padded amount", false, []string{"001", " 10"}, errs.KindUnknown, "", "an unexpected error occurred"},
		{"empty amount", false, []string{"001", ""}, errs.KindUnknown, "", "an unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(loadTables(t, tt.commodity))

			rec, err := v.Validate("00000009.rcd", tt.lines)
			assert.Nil(t, rec)

			e := errs.As(err)
			require.NotNil(t, e)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.dimension, e.Dimension)
			assert.Equal(t, tt.message, e.Message())
		})
	}
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("000123")
	require.NoError(t, err)
	assert.Equal(t, "123", amount.String())

	// Longer than any int64; the ceiling is enforced by the caller.
	amount, err = ParseAmount("123456789012345678901234567890")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", amount.String())

	_, err = ParseAmount("1e5")
	assert.Error(t, err)
	_, err = ParseAmount("+5")
	assert.Error(t, err)
}
