// =============================================================================
// Sales Aggregation - Record File Selector
// =============================================================================
//
// This module discovers the daily record files of a run and verifies that
// they form one contiguous, gap-free sequence.
//
// SELECTION RULES:
//   - Only direct entries of the run directory are considered.
//   - Only regular files named with exactly eight digits followed by the
//     record extension (e.g. "00000001.rcd") are kept.
//   - Everything else (master files, reports, subdirectories, unrelated
//     files) is silently ignored.
//
// SEQUENCE RULE:
//   Sorted by name, each file's number must be the previous file's number
//   plus one. Zero or one file is always contiguous.
//
// =============================================================================

package selector

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ginjaninja78/sales-aggregation/internal/errs"
	"github.com/ginjaninja78/sales-aggregation/internal/types"
	"github.com/ginjaninja78/sales-aggregation/pkg/utils"
)

// sequenceDigits is the width of the numeric record file name prefix.
const sequenceDigits = 8

// Pattern returns the regular expression record file names must match.
func Pattern(extension string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^[0-9]{%d}%s$`, sequenceDigits, regexp.QuoteMeta(extension)))
}

// Select lists, filters, sorts and sequence-checks the record files of the
// run directory.
//
// RETURNS:
//   - The record files in ascending sequence order.
//   - KindNonConsecutive if the sequence has a gap or duplicate, KindUnknown
//     if the directory cannot be listed.
func Select(fm *utils.FileManager, extension string) ([]types.RecordFile, error) {
	names, err := fm.ListRegularFiles()
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, err)
	}

	files := Filter(names, extension)

	if err := CheckSequence(files); err != nil {
		return nil, err
	}

	return files, nil
}

// Filter keeps the record file names among names, in the order given.
// Callers pass names sorted ascending.
func Filter(names []string, extension string) []types.RecordFile {
	pattern := Pattern(extension)

	var files []types.RecordFile
	for _, name := range names {
		if !pattern.MatchString(name) {
			continue
		}
		// Eight ASCII digits always fit an int.
		seq, _ := strconv.Atoi(name[:sequenceDigits])
		files = append(files, types.RecordFile{
			Name:     name,
			Sequence: seq,
		})
	}

	return files
}

// CheckSequence verifies every adjacent pair differs by exactly one.
func CheckSequence(files []types.RecordFile) error {
	for i := 0; i+1 < len(files); i++ {
		former, latter := files[i], files[i+1]
		if latter.Sequence-former.Sequence != 1 {
			return errs.Wrap(errs.KindNonConsecutive,
				fmt.Errorf("%s follows %s", latter.Name, former.Name))
		}
	}
	return nil
}
