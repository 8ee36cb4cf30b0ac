// =============================================================================
// Sales Aggregation - File Manager Utility
// =============================================================================
//
// This module provides the file system primitives the pipeline calls into:
//   - Directory listing (direct entries only, regular files only)
//   - Existence checks for master definition files
//   - Line-oriented reading with the handle released on every path
//   - Report file creation
//
// All paths are resolved relative to a single run directory.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations inside a run directory.
type FileManager struct {
	// Dir is the run directory holding master, record and report files.
	Dir string
}

// NewFileManager creates a new FileManager for the given directory.
func NewFileManager(dir string) *FileManager {
	return &FileManager{Dir: dir}
}

// Path returns the full path of a file in the run directory.
func (fm *FileManager) Path(name string) string {
	return filepath.Join(fm.Dir, name)
}

// Exists reports whether a file with the given name exists in the run
// directory. Any stat failure other than "not exist" counts as existing, so
// the subsequent open reports the real fault.
func (fm *FileManager) Exists(name string) bool {
	_, err := os.Stat(fm.Path(name))
	return !os.IsNotExist(err)
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// ListRegularFiles returns the names of the regular files directly inside the
// run directory, sorted by name. Subdirectories are skipped. Symbolic links
// are followed; dangling links are skipped.
func (fm *FileManager) ListRegularFiles() ([]string, error) {
	entries, err := os.ReadDir(fm.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory %s: %w", fm.Dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
			continue
		}
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		info, err := os.Stat(fm.Path(entry.Name()))
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

// =============================================================================
// READING
// =============================================================================

// ReadLines reads a file in the run directory and returns its lines without
// terminators. Both "\n" and "\r\n" terminate a line; a final line without a
// terminator is still returned.
func (fm *FileManager) ReadLines(name string) ([]string, error) {
	var lines []string
	err := fm.EachLine(name, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// EachLine calls fn for every line of a file in the run directory, stopping
// at the first error fn returns. The file is closed before EachLine returns.
func (fm *FileManager) EachLine(name string, fn func(line string) error) error {
	file, err := os.Open(fm.Path(name))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer file.Close()

	return scanLines(file, fn)
}

// scanLines feeds every line of r to fn. Lines are not length limited.
func scanLines(r io.Reader, fn func(line string) error) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			line = trimTerminator(line)
			if ferr := fn(line); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read: %w", err)
		}
	}
}

func trimTerminator(line string) string {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
		if n > 0 && line[n-1] == '\r' {
			n--
		}
	}
	return line[:n]
}

// =============================================================================
// WRITING
// =============================================================================

// WriteFile creates or truncates a file in the run directory and hands a
// buffered writer to fn. The buffer is flushed and the file closed on every
// path; the first error wins.
func (fm *FileManager) WriteFile(name string, fn func(w *bufio.Writer) error) (err error) {
	file, err := os.Create(fm.Path(name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", name, cerr)
		}
	}()

	writer := bufio.NewWriter(file)
	if err := fn(writer); err != nil {
		return err
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}

	return nil
}
