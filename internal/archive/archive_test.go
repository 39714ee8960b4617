package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/quantmind-br/freshen/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

type entry struct {
	name     string
	body     string
	mode     int64
	typeflag byte
	linkname string
}

var appTree = []entry{
	{name: "app/", typeflag: tar.TypeDir, mode: 0o755},
	{name: "app/run", body: "#!/bin/sh\necho new\n", mode: 0o755},
	{name: "app/lib/data.txt", body: "data", mode: 0o644},
}

func writeTar(t *testing.T, w io.Writer, entries []entry) {
	t.Helper()
	tw := tar.NewWriter(w)
	for _, e := range entries {
		typeflag := e.typeflag
		if typeflag == 0 {
			typeflag = tar.TypeReg
		}
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     e.mode,
			Size:     int64(len(e.body)),
			Typeflag: typeflag,
			Linkname: e.linkname,
		}
		if typeflag != tar.TypeReg {
			hdr.Size = 0
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
}

func writeZip(t *testing.T, path string, entries []entry) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		mode := os.FileMode(e.mode)
		if e.typeflag == tar.TypeDir {
			mode |= os.ModeDir
		}
		if e.typeflag == tar.TypeSymlink {
			mode |= os.ModeSymlink
		}
		hdr.SetMode(mode)
		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		body := e.body
		if e.typeflag == tar.TypeSymlink {
			body = e.linkname
		}
		if e.typeflag != tar.TypeDir {
			_, err = w.Write([]byte(body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
}

func writeCompressedTar(t *testing.T, path string, format Format, entries []entry) {
	t.Helper()
	var raw bytes.Buffer
	writeTar(t, &raw, entries)

	var out bytes.Buffer
	switch format {
	case FormatTar:
		_, err := out.Write(raw.Bytes())
		require.NoError(t, err)
	case FormatTarGz:
		w := gzip.NewWriter(&out)
		_, err := w.Write(raw.Bytes())
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case FormatTarXz:
		w, err := xz.NewWriter(&out)
		require.NoError(t, err)
		_, err = w.Write(raw.Bytes())
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case FormatTarZst:
		w, err := zstd.NewWriter(&out)
		require.NoError(t, err)
		_, err = w.Write(raw.Bytes())
		require.NoError(t, err)
		require.NoError(t, w.Close())
	default:
		t.Fatalf("unsupported test format %s", format)
	}
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0o644))
}

func assertAppTree(t *testing.T, dir string) {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, "app", "run"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho new\n", string(content))

	content, err = os.ReadFile(filepath.Join(dir, "app", "lib", "data.txt"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "archive layout must not gain a wrapper directory")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dir, "app", "run"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

func TestExtractor_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		format Format
	}{
		{"tar", "release.tar", FormatTar},
		{"tar.gz", "release.tar.gz", FormatTarGz},
		{"tgz", "release.tgz", FormatTarGz},
		{"tar.xz", "release.tar.xz", FormatTarXz},
		{"tar.zst", "release.tar.zst", FormatTarZst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			archivePath := filepath.Join(dir, tt.file)
			writeCompressedTar(t, archivePath, tt.format, appTree)

			out := filepath.Join(dir, "out")
			err := NewExtractor(nil, nil).Unpack(context.Background(), archivePath, out)
			require.NoError(t, err)
			assertAppTree(t, out)
		})
	}

	t.Run("zip", func(t *testing.T) {
		dir := t.TempDir()
		archivePath := filepath.Join(dir, "release.zip")
		writeZip(t, archivePath, appTree)

		out := filepath.Join(dir, "out")
		err := NewExtractor(nil, nil).Unpack(context.Background(), archivePath, out)
		require.NoError(t, err)
		assertAppTree(t, out)
	})
}

// tar.bz2 holding app/run with "bz2\n"
const tarBz2Fixture = "QlpoOTFBWSZTWdXH5wwAAG57gMmQAAFAAPaAACBwAV4QCAggAFRGqPSYRgBMaCSmpo0ND1GTQH1cxkIJRQhE7PiPPKSBEAdizxFdARRgXbt2obj8WK6RIaLJpfafAAi4LuSKcKEhq4/OGA=="

func TestExtractor_TarBz2(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(tarBz2Fixture)
	require.NoError(t, err)

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "release.tar.bz2")
	require.NoError(t, os.WriteFile(archivePath, data, 0o644))

	out := filepath.Join(dir, "out")
	require.NoError(t, NewExtractor(nil, nil).Unpack(context.Background(), archivePath, out))

	content, err := os.ReadFile(filepath.Join(out, "app", "run"))
	require.NoError(t, err)
	assert.Equal(t, "bz2\n", string(content))
}

func TestExtractor_SingleFile(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "fresh-0.1.3.zip")
	writeZip(t, archivePath, []entry{{name: "fresh", body: "binary", mode: 0o755}})

	out := filepath.Join(dir, "out")
	require.NoError(t, NewExtractor(nil, nil).Unpack(context.Background(), archivePath, out))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh", entries[0].Name())
	assert.False(t, entries[0].IsDir())
}

func TestExtractor_RejectsTraversal(t *testing.T) {
	t.Run("tar", func(t *testing.T) {
		dir := t.TempDir()
		archivePath := filepath.Join(dir, "evil.tar.gz")
		writeCompressedTar(t, archivePath, FormatTarGz, []entry{{name: "../evil", body: "x", mode: 0o644}})

		err := NewExtractor(nil, nil).Unpack(context.Background(), archivePath, filepath.Join(dir, "out"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid path")
		assert.NoFileExists(t, filepath.Join(dir, "evil"))
	})

	t.Run("zip", func(t *testing.T) {
		dir := t.TempDir()
		archivePath := filepath.Join(dir, "evil.zip")
		writeZip(t, archivePath, []entry{{name: "../../evil", body: "x", mode: 0o644}})

		err := NewExtractor(nil, nil).Unpack(context.Background(), archivePath, filepath.Join(dir, "out"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid path")
	})

	t.Run("symlink escape", func(t *testing.T) {
		dir := t.TempDir()
		archivePath := filepath.Join(dir, "evil.tar")
		writeCompressedTar(t, archivePath, FormatTar, []entry{
			{name: "link", typeflag: tar.TypeSymlink, linkname: "../../etc/passwd", mode: 0o777},
		})

		err := NewExtractor(nil, nil).Unpack(context.Background(), archivePath, filepath.Join(dir, "out"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid symlink")
	})
}

func TestExtractor_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "release.tar")
	writeCompressedTar(t, archivePath, FormatTar, []entry{
		{name: "app/run", body: "x", mode: 0o755},
		{name: "app/current", typeflag: tar.TypeSymlink, linkname: "run", mode: 0o777},
	})

	out := filepath.Join(dir, "out")
	require.NoError(t, NewExtractor(nil, nil).Unpack(context.Background(), archivePath, out))

	target, err := os.Readlink(filepath.Join(out, "app", "current"))
	require.NoError(t, err)
	assert.Equal(t, "run", target)
}

func TestExtractor_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "release.tar")
	writeCompressedTar(t, archivePath, FormatTar, appTree)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewExtractor(nil, nil).Unpack(ctx, archivePath, filepath.Join(dir, "out"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractor_Unsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	err := NewExtractor(nil, nil).Unpack(context.Background(), path, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported archive format")
}

func TestExtractor_External(t *testing.T) {
	t.Run("7z uses first available binary", func(t *testing.T) {
		var gotName string
		var gotArgs []string
		runner := &helpers.MockCommandRunner{
			CommandExistsFunc: func(name string) bool { return name == "7zz" },
			RunCommandInDirFunc: func(_ context.Context, _, name string, args ...string) (string, error) {
				gotName = name
				gotArgs = args
				return "", nil
			},
		}

		dir := t.TempDir()
		archivePath := filepath.Join(dir, "release.7z")
		require.NoError(t, os.WriteFile(archivePath, []byte("7z"), 0o644))
		out := filepath.Join(dir, "out")

		require.NoError(t, NewExtractor(nil, runner).Unpack(context.Background(), archivePath, out))
		assert.Equal(t, "7zz", gotName)
		assert.Equal(t, []string{"x", "-y", "-o" + out, archivePath}, gotArgs)
	})

	t.Run("rar prefers unrar", func(t *testing.T) {
		var gotName string
		runner := &helpers.MockCommandRunner{
			CommandExistsFunc: func(string) bool { return true },
			RunCommandInDirFunc: func(_ context.Context, _, name string, _ ...string) (string, error) {
				gotName = name
				return "", nil
			},
		}

		dir := t.TempDir()
		archivePath := filepath.Join(dir, "release.rar")
		require.NoError(t, os.WriteFile(archivePath, []byte("rar"), 0o644))

		require.NoError(t, NewExtractor(nil, runner).Unpack(context.Background(), archivePath, filepath.Join(dir, "out")))
		assert.Equal(t, "unrar", gotName)
	})

	t.Run("missing tool", func(t *testing.T) {
		runner := &helpers.MockCommandRunner{}

		dir := t.TempDir()
		archivePath := filepath.Join(dir, "release.7z")
		require.NoError(t, os.WriteFile(archivePath, []byte("7z"), 0o644))

		err := NewExtractor(nil, runner).Unpack(context.Background(), archivePath, filepath.Join(dir, "out"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `required command "7z" not found in PATH`)
	})

	t.Run("rar falls back to 7z", func(t *testing.T) {
		var gotName string
		runner := &helpers.MockCommandRunner{
			CommandExistsFunc: func(name string) bool { return name == "7za" },
			RunCommandInDirFunc: func(_ context.Context, _, name string, _ ...string) (string, error) {
				gotName = name
				return "", nil
			},
		}

		dir := t.TempDir()
		archivePath := filepath.Join(dir, "release.rar")
		require.NoError(t, os.WriteFile(archivePath, []byte("rar"), 0o644))

		require.NoError(t, NewExtractor(nil, runner).Unpack(context.Background(), archivePath, filepath.Join(dir, "out")))
		assert.Equal(t, "7za", gotName)
	})

	t.Run("rar without any tool", func(t *testing.T) {
		var required []string
		runner := &helpers.MockCommandRunner{
			RequireCommandFunc: func(name string) error {
				required = append(required, name)
				return errors.New("not installed")
			},
		}

		dir := t.TempDir()
		archivePath := filepath.Join(dir, "release.rar")
		require.NoError(t, os.WriteFile(archivePath, []byte("rar"), 0o644))

		err := NewExtractor(nil, runner).Unpack(context.Background(), archivePath, filepath.Join(dir, "out"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rar archives need unrar or 7z: not installed")
		assert.Equal(t, []string{"unrar"}, required)
	})

	t.Run("tool failure", func(t *testing.T) {
		runner := &helpers.MockCommandRunner{
			CommandExistsFunc: func(string) bool { return true },
			RunCommandInDirFunc: func(context.Context, string, string, ...string) (string, error) {
				return "", errors.New("boom")
			},
			GetExitCodeFunc: func(error) int { return 2 },
		}

		dir := t.TempDir()
		archivePath := filepath.Join(dir, "release.7z")
		require.NoError(t, os.WriteFile(archivePath, []byte("7z"), 0o644))

		err := NewExtractor(nil, runner).Unpack(context.Background(), archivePath, filepath.Join(dir, "out"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exited with code 2")
	})
}
