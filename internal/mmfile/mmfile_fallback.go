//go:build !unix

package mmfile

import "os"

// Map reads the whole file on platforms without mmap support.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
