package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies an archive container and its compression
type Format string

const (
	FormatZip     Format = "zip"
	FormatTar     Format = "tar"
	FormatTarGz   Format = "tar.gz"
	FormatTarXz   Format = "tar.xz"
	FormatTarBz2  Format = "tar.bz2"
	FormatTarZst  Format = "tar.zst"
	Format7z      Format = "7z"
	FormatRar     Format = "rar"
	FormatUnknown Format = "unknown"
)

var suffixes = []struct {
	suffix string
	format Format
}{
	{".tar.gz", FormatTarGz},
	{".tgz", FormatTarGz},
	{".tar.xz", FormatTarXz},
	{".txz", FormatTarXz},
	{".tar.bz2", FormatTarBz2},
	{".tbz2", FormatTarBz2},
	{".tbz", FormatTarBz2},
	{".tar.zst", FormatTarZst},
	{".tzst", FormatTarZst},
	{".tar", FormatTar},
	{".zip", FormatZip},
	{".7z", Format7z},
	{".rar", FormatRar},
}

var magics = []struct {
	magic  []byte
	format Format
}{
	{[]byte{'P', 'K', 0x03, 0x04}, FormatZip},
	{[]byte{'P', 'K', 0x05, 0x06}, FormatZip},
	{[]byte{0x1F, 0x8B}, FormatTarGz},
	{[]byte{0xFD, '7', 'z', 'X', 'Z', 0x00}, FormatTarXz},
	{[]byte{'B', 'Z', 'h'}, FormatTarBz2},
	{[]byte{0x28, 0xB5, 0x2F, 0xFD}, FormatTarZst},
	{[]byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}, Format7z},
	{[]byte{'R', 'a', 'r', '!', 0x1A, 0x07}, FormatRar},
}

// DetectFormat identifies an archive by extension first, then by magic numbers
func DetectFormat(path string) (Format, error) {
	if format := formatFromName(path); format != FormatUnknown {
		return format, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 512)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read file header: %w", err)
	}

	return formatFromHeader(header[:n]), nil
}

func formatFromName(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	for _, s := range suffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.format
		}
	}
	return FormatUnknown
}

func formatFromHeader(header []byte) Format {
	for _, m := range magics {
		if bytes.HasPrefix(header, m.magic) {
			return m.format
		}
	}

	// Tar magic: "ustar" at offset 257
	if len(header) >= 262 && bytes.Equal(header[257:262], []byte("ustar")) {
		return FormatTar
	}

	return FormatUnknown
}
