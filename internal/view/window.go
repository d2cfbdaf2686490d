package view

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is returned when the cursor lies outside the buffer
var ErrOutOfRange = errors.New("could not get lines to display")

// Window returns the half-open range [start, end) of lines visible with
// the cursor at the top of a viewport of the given height.
//
// When the buffer does not extend past the viewport the last line is
// left out, so the range is [cursor, total-1).
func Window(total, cursor, height int) (start, end int, err error) {
	if total == 0 {
		return 0, 0, nil
	}
	if cursor < 0 || cursor > total-1 {
		return 0, 0, fmt.Errorf("%w: cursor %d, %d lines", ErrOutOfRange, cursor, total)
	}
	if total-cursor > height {
		return cursor, cursor + height, nil
	}
	return cursor, total - 1, nil
}

// MaxCursor is the furthest the cursor may advance: the point where the
// last line sits at the bottom of the viewport
func MaxCursor(total, height int) int {
	if total-height < 0 {
		return 0
	}
	return total - height
}

// Clamp limits a forward target to MaxCursor
func Clamp(target, total, height int) int {
	if limit := MaxCursor(total, height); target > limit {
		return limit
	}
	return target
}

// Increment advances the cursor by count, clamped
func Increment(cursor, count, total, height int) int {
	if count > 0 && cursor > math.MaxInt-count {
		return Clamp(math.MaxInt, total, height)
	}
	return Clamp(cursor+count, total, height)
}

// Decrement moves the cursor back by count, saturating at zero
func Decrement(cursor, count int) int {
	if cursor-count < 0 {
		return 0
	}
	return cursor - count
}
