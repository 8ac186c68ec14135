// Package pnu assembles and splits 19-digit parcel identifiers.
package pnu

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidLotNumber reports a main or sub lot outside the 0..9999 range.
var ErrInvalidLotNumber = errors.New("lot number out of range")

// ErrInvalidCode reports a district code that is not exactly ten digits.
var ErrInvalidCode = errors.New("district code must be 10 digits")

// Assemble builds the 19-digit identifier: ten district digits, one
// mountain-lot flag, four zero-padded main-lot digits, four zero-padded
// sub-lot digits.
func Assemble(code10 string, mountainLot, bun, ji int) (string, error) {
	if len(code10) != 10 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, code10)
	}
	for _, c := range code10 {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCode, code10)
		}
	}
	if bun < 0 || bun > 9999 {
		return "", fmt.Errorf("%w: bun %d", ErrInvalidLotNumber, bun)
	}
	if ji < 0 || ji > 9999 {
		return "", fmt.Errorf("%w: ji %d", ErrInvalidLotNumber, ji)
	}
	mt := 0
	if mountainLot != 0 {
		mt = 1
	}
	return fmt.Sprintf("%s%d%04d%04d", code10, mt, bun, ji), nil
}

// Split decomposes a 19-digit identifier back into its four fields.
func Split(pnu string) (code10 string, mountainLot, bun, ji int, err error) {
	if len(pnu) != 19 {
		return "", 0, 0, 0, fmt.Errorf("pnu must be 19 digits, got %d", len(pnu))
	}
	for _, c := range pnu {
		if c < '0' || c > '9' {
			return "", 0, 0, 0, fmt.Errorf("pnu contains non-digit: %q", pnu)
		}
	}
	code10 = pnu[:10]
	mountainLot = int(pnu[10] - '0')
	bun, _ = strconv.Atoi(pnu[11:15])
	ji, _ = strconv.Atoi(pnu[15:19])
	return code10, mountainLot, bun, ji, nil
}
