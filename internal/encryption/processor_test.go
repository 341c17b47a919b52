package encryption_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/filter"
	"github.com/idelchi/fcrypt/internal/keygen"
)

// failingFs denies reads of the listed base names, as a permission error would.
type failingFs struct {
	afero.Fs

	deny map[string]bool
}

func (f failingFs) Open(name string) (afero.File, error) {
	if f.deny[filepath.Base(name)] {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}

	return f.Fs.Open(name)
}

func writeFiles(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()

	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
}

func TestProcessFile_Scenario(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/work/abc": "abc"})

	key, err := keygen.Generate(256)
	require.NoError(t, err)
	require.Len(t, key, 32)

	p, err := encryption.NewPairing(encryption.AESGCM, key)
	require.NoError(t, err)

	enc := encryption.NewProcessor(fsys, p, encryption.Options{Mode: encryption.Encrypt})

	res := enc.ProcessFile("/work/abc")
	require.NoError(t, res.Error)
	assert.Equal(t, "/work/abc.enc", res.Output)
	assert.EqualValues(t, 3+12+16, res.OutputSize)

	original, err := afero.ReadFile(fsys, "/work/abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(original), "plaintext must stay untouched")

	require.NoError(t, fsys.Remove("/work/abc"))

	dec := encryption.NewProcessor(fsys, p, encryption.Options{Mode: encryption.Decrypt})

	res = dec.ProcessFile("/work/abc.enc")
	require.NoError(t, res.Error)
	assert.Equal(t, "/work/abc", res.Output)

	restored, err := afero.ReadFile(fsys, "/work/abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(restored))
}

func TestProcessFile_Errors(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"/work/plain.txt":   "not encrypted",
		"/work/garbage.enc": "too short",
	})

	p := pairing(t, encryption.ChaCha20Poly1305, 256)
	dec := encryption.NewProcessor(fsys, p, encryption.Options{Mode: encryption.Decrypt})

	res := dec.ProcessFile("/work/plain.txt")
	require.ErrorIs(t, res.Error, encryption.ErrMissingSuffix)

	res = dec.ProcessFile("/work/garbage.enc")
	require.ErrorIs(t, res.Error, encryption.ErrAuthentication)

	exists, err := afero.Exists(fsys, "/work/garbage")
	require.NoError(t, err)
	assert.False(t, exists, "a failed decrypt must not leave output behind")

	entries, err := afero.ReadDir(fsys, "/work")
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must be cleaned up")

	res = dec.ProcessFile("/work/missing.enc")
	require.Error(t, res.Error)
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	p := pairing(t, encryption.AESGCM, 128)
	fsys := afero.NewMemMapFs()

	enc := encryption.NewProcessor(fsys, p, encryption.Options{Mode: encryption.Encrypt, Suffix: ".locked"})
	out, err := enc.OutputPath("dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "dir/file.txt.locked", out)

	dec := encryption.NewProcessor(fsys, p, encryption.Options{Mode: encryption.Decrypt})

	out, err = dec.OutputPath(filepath.Join("dir", "file.txt.enc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("dir", "file.txt"), out)

	_, err = dec.OutputPath("dir/.enc")
	require.ErrorIs(t, err, encryption.ErrMissingSuffix)

	_, err = dec.OutputPath("dir.enc/file")
	require.ErrorIs(t, err, encryption.ErrMissingSuffix)
}

func TestProcessDir_RoundTrip(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/logs/foo.log":        "foo",
		"/logs/bar.log":        "bar",
		"/logs/nested/baz.log": "baz",
		"/logs/App.app/inner":  "bundle content",
	}
	writeFiles(t, fsys, files)

	p := pairing(t, encryption.ChaCha20Poly1305, 256)
	opts := encryption.Options{Format: encryption.FormatTagged, Filter: filter.Options{Bundles: filter.DefaultBundles()}}

	opts.Mode = encryption.Encrypt
	report, err := encryption.NewProcessor(fsys, p, opts).ProcessDir(t.Context(), "/logs")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed())
	assert.Zero(t, report.Failed())

	for _, path := range []string{"/logs/bar.log", "/logs/foo.log", "/logs/nested/baz.log"} {
		require.NoError(t, fsys.Remove(path))
	}

	opts.Mode = encryption.Decrypt
	report, err = encryption.NewProcessor(fsys, p, opts).ProcessDir(t.Context(), "/logs")
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Equal(t, "/logs/bar.log.enc", report.Results[0].Input, "results are sorted by path")

	for path, content := range files {
		got, err := afero.ReadFile(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, content, string(got))
	}

	exists, err := afero.Exists(fsys, "/logs/App.app/inner.enc")
	require.NoError(t, err)
	assert.False(t, exists, "bundles are not descended into")
}

func TestProcessDir_PartialFailure(t *testing.T) {
	t.Parallel()

	base := afero.NewMemMapFs()
	writeFiles(t, base, map[string]string{
		"/data/1.txt": "one",
		"/data/2.txt": "two",
		"/data/3.txt": "three",
		"/data/4.txt": "four",
		"/data/5.txt": "five",
	})

	fsys := failingFs{Fs: base, deny: map[string]bool{"2.txt": true, "4.txt": true}}

	var stderr bytes.Buffer

	p := pairing(t, encryption.AESGCM, 192)
	proc := encryption.NewProcessor(fsys, p, encryption.Options{Parallel: 2, Stderr: &stderr})

	report, err := proc.ProcessDir(t.Context(), "/data")
	require.ErrorIs(t, err, encryption.ErrBatch)
	assert.Contains(t, err.Error(), "2 of 5 files failed")
	require.ErrorIs(t, err, os.ErrPermission)

	assert.Equal(t, 2, report.Failed())
	assert.Equal(t, 3, report.Processed())

	for _, name := range []string{"1.txt", "3.txt", "5.txt"} {
		exists, err := afero.Exists(base, "/data/"+name+".enc")
		require.NoError(t, err)
		assert.True(t, exists, name)
	}

	for _, name := range []string{"2.txt", "4.txt"} {
		exists, err := afero.Exists(base, "/data/"+name+".enc")
		require.NoError(t, err)
		assert.False(t, exists, name)
	}

	assert.Equal(t, 2, strings.Count(stderr.String(), "Error processing"))
}

func TestProcessDir_UnreadableSubdirectory(t *testing.T) {
	t.Parallel()

	base := afero.NewMemMapFs()
	writeFiles(t, base, map[string]string{
		"/d/a.txt":        "a",
		"/d/locked/b.txt": "b",
		"/d/z/c.txt":      "c",
	})

	fsys := failingFs{Fs: base, deny: map[string]bool{"locked": true}}

	var stderr bytes.Buffer

	p := pairing(t, encryption.AESGCM, 128)

	report, err := encryption.NewProcessor(fsys, p, encryption.Options{Stderr: &stderr}).ProcessDir(t.Context(), "/d")
	require.ErrorIs(t, err, encryption.ErrBatch)
	require.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "1 of 3 files failed")

	require.NotNil(t, report)
	assert.Equal(t, 2, report.Processed())
	assert.Equal(t, 1, report.Failed())
	assert.Contains(t, stderr.String(), `Error processing "/d/locked"`)

	for _, path := range []string{"/d/a.txt.enc", "/d/z/c.txt.enc"} {
		exists, err := afero.Exists(base, path)
		require.NoError(t, err)
		assert.True(t, exists, path)
	}
}

func TestProcessDir_EncryptSkipsCiphertext(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/d/a.txt": "a"})

	p := pairing(t, encryption.AESGCM, 256)
	proc := encryption.NewProcessor(fsys, p, encryption.Options{})

	for range 2 {
		report, err := proc.ProcessDir(t.Context(), "/d")
		require.NoError(t, err)
		require.Len(t, report.Results, 1)
		assert.Equal(t, "/d/a.txt", report.Results[0].Input)
	}

	exists, err := afero.Exists(fsys, "/d/a.txt.enc.enc")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProcessDir_DecryptSkipsPlaintext(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/d/readme.md": "hello"})

	p := pairing(t, encryption.AESGCM, 256)

	report, err := encryption.NewProcessor(fsys, p, encryption.Options{Mode: encryption.Decrypt}).
		ProcessDir(t.Context(), "/d")
	require.NoError(t, err)
	assert.Empty(t, report.Results)
}

func TestProcessFiles_Canceled(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/a": "a", "/b": "b"})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	p := pairing(t, encryption.AESGCM, 256)

	report, err := encryption.NewProcessor(fsys, p, encryption.Options{}).ProcessFiles(ctx, []string{"/a", "/b"})
	require.ErrorIs(t, err, encryption.ErrBatch)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, report.Failed())
}

func TestProcessFiles_Delete(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/x/secret": "s3cr3t"})

	var stdout bytes.Buffer

	p := pairing(t, encryption.AESGCM, 256)
	proc := encryption.NewProcessor(fsys, p, encryption.Options{Delete: true, Stdout: &stdout})

	report, err := proc.ProcessFiles(t.Context(), []string{"/x/secret"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed())
	assert.Positive(t, report.Size())

	exists, err := afero.Exists(fsys, "/x/secret")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Contains(t, stdout.String(), `Processed "/x/secret" -> "/x/secret.enc"`)
	assert.Contains(t, stdout.String(), `Deleted "/x/secret"`)
}

func TestProcessFile_KeepsExecutableBit(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/bin/run.sh", []byte("#!/bin/sh\n"), 0o755))

	p := pairing(t, encryption.AESGCM, 256)

	res := encryption.NewProcessor(fsys, p, encryption.Options{}).ProcessFile("/bin/run.sh")
	require.NoError(t, res.Error)

	info, err := fsys.Stat(res.Output)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111)
}
