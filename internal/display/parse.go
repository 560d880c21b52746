package display

import (
	"display_bridge/internal/models"
)

const digitCount = 4

// ParseDigits decodes a 4-digit string left to right: d1d2 becomes A and d3d4 becomes B.
func ParseDigits(s string) (models.DisplayPayload, error) {
	if len(s) != digitCount {
		return models.DisplayPayload{}, ErrInvalidFormat
	}
	var d [digitCount]int
	for i := 0; i < digitCount; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return models.DisplayPayload{}, ErrInvalidFormat
		}
		d[i] = int(c - '0')
	}

	// An all-zero value always maps to 00/00. Same result as the decode below.
	if d[0]+d[1]+d[2]+d[3] == 0 {
		return models.DisplayPayload{}, nil
	}
	return models.DisplayPayload{
		A: d[0]*10 + d[1],
		B: d[2]*10 + d[3],
	}, nil
}
