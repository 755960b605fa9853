// Package mmfile reads table files through a read-only memory mapping where
// the platform supports one.
package mmfile

// ReadFile maps path, copies its contents and unmaps it again. The returned
// slice is owned by the caller and does not change when the file is later
// rewritten or truncated. Callers that finish with the bytes before the file
// can change should use Map and keep the mapping for that span instead.
func ReadFile(path string) ([]byte, error) {
	data, unmap, err := Map(path)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	if err := unmap(); err != nil {
		return nil, err
	}
	return out, nil
}
