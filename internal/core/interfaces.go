package core

import "context"

// Comparator decides whether candidate is a newer version than current.
// Implementations must be consistent: Newer(a, b) and Newer(b, a) are never both true.
type Comparator interface {
	Newer(current, candidate string) bool
}

// ComparatorFunc adapts a plain function to a Comparator
type ComparatorFunc func(current, candidate string) bool

// Newer implements Comparator
func (f ComparatorFunc) Newer(current, candidate string) bool {
	return f(current, candidate)
}

// Unpacker extracts the archive at archivePath into outputDir
type Unpacker interface {
	Unpack(ctx context.Context, archivePath, outputDir string) error
}

// UnpackerFunc adapts a plain function to an Unpacker
type UnpackerFunc func(ctx context.Context, archivePath, outputDir string) error

// Unpack implements Unpacker
func (f UnpackerFunc) Unpack(ctx context.Context, archivePath, outputDir string) error {
	return f(ctx, archivePath, outputDir)
}
