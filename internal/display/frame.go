// Package display implements the text protocol spoken to the segment display peer.
//
// Frame format:
//
//	$D<AA><BB>\n
//	- $D: update marker
//	- AA: first field, two decimal digits, zero padded
//	- BB: second field, two decimal digits, zero padded
//	- \n: frame terminator
//
// The peer never answers; a written frame is assumed delivered.
package display

import (
	"errors"
	"fmt"

	"display_bridge/internal/models"
)

const (
	frameMarker = "$D"
	maxField    = 99
)

var (
	ErrInvalidFormat = errors.New("invalid format: expected 4 decimal digits")
	ErrOutOfRange    = errors.New("field out of range: must be within 0..99")
)

// Encode renders p as a frame. Fields outside 0..99 yield ErrOutOfRange.
func Encode(p models.DisplayPayload) ([]byte, error) {
	if !validField(p.A) || !validField(p.B) {
		return nil, fmt.Errorf("encode %d/%d: %w", p.A, p.B, ErrOutOfRange)
	}
	return []byte(fmt.Sprintf("%s%02d%02d\n", frameMarker, p.A, p.B)), nil
}

func validField(v int) bool {
	return v >= 0 && v <= maxField
}
