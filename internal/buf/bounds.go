package buf

import (
	"fmt"
	"math"
)

// addOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func addOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// CheckListBounds validates that count elements of elementSize bytes fit in a
// buffer of bufLen bytes starting at offset. Returns the end offset.
//
// Table headers carry attacker-controlled counts, so every array is checked
// before iterating:
//
//	end, err := buf.CheckListBounds(len(data), estHeaderSize, int(count), estKeySize)
//	if err != nil {
//	    return fmt.Errorf("est keys: %w", err)
//	}
func CheckListBounds(bufLen, offset, count, elementSize int) (int, error) {
	if offset < 0 || count < 0 || elementSize < 0 {
		return 0, fmt.Errorf("negative bounds: off=%d count=%d size=%d", offset, count, elementSize)
	}
	if elementSize != 0 && count > math.MaxInt/elementSize {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elementSize)
	}
	end, ok := addOverflowSafe(offset, count*elementSize)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, count*elementSize)
	}
	if end > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := addOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
