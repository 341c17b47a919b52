// Package fileutil provides atomic file output on an afero file system.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	// OwnerReadWrite is the base permission of every file written by fcrypt.
	OwnerReadWrite os.FileMode = 0o600

	executableBits os.FileMode = 0o111
)

// TempContext holds state for an atomic file write operation.
type TempContext struct {
	Fs      afero.Fs
	SrcInfo os.FileInfo
	IsExec  bool
	TmpFile afero.File
	TmpName string
}

// NewTempContext stats the source file and creates a temp file next to outPath.
// Caller must defer CleanupOnError.
func NewTempContext(fsys afero.Fs, filename, outPath string) (*TempContext, error) {
	info, err := fsys.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", filename, err)
	}

	tc, err := newTemp(fsys, outPath)
	if err != nil {
		return nil, err
	}

	tc.SrcInfo = info
	tc.IsExec = info.Mode()&executableBits != 0

	return tc, nil
}

func newTemp(fsys afero.Fs, outPath string) (*TempContext, error) {
	tmpFile, err := afero.TempFile(fsys, filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempContext{
		Fs:      fsys,
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
	}, nil
}

// Perm returns the output permissions, carrying over the executable bits of the source.
func (tc *TempContext) Perm() os.FileMode {
	if tc.IsExec {
		return OwnerReadWrite | executableBits
	}

	return OwnerReadWrite
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:errcheck,gosec // best-effort cleanup

	if *errp != nil {
		tc.Fs.Remove(tc.TmpName) //nolint:errcheck,gosec // best-effort cleanup
	}
}

// Commit sets perm on the temp file, renames it onto outPath and returns the final size.
func (tc *TempContext) Commit(outPath string, perm os.FileMode) (int64, error) {
	if err := tc.TmpFile.Close(); err != nil {
		return 0, fmt.Errorf("closing temporary file: %w", err)
	}

	if err := tc.Fs.Chmod(tc.TmpName, perm); err != nil {
		return 0, fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tc.Fs.Rename(tc.TmpName, outPath); err != nil {
		return 0, fmt.Errorf("renaming output file: %w", err)
	}

	outInfo, err := tc.Fs.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return outInfo.Size(), nil
}

// WriteFile writes data to outPath through a temp file and a rename,
// so readers never observe a partially written file.
func WriteFile(fsys afero.Fs, outPath string, data []byte, perm os.FileMode) (size int64, err error) {
	tc, err := newTemp(fsys, outPath)
	if err != nil {
		return 0, err
	}

	defer tc.CleanupOnError(&err)

	if _, err = tc.TmpFile.Write(data); err != nil {
		return 0, fmt.Errorf("writing %q: %w", outPath, err)
	}

	return tc.Commit(outPath, perm)
}
