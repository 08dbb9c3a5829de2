package eni

import (
	"errors"
	"fmt"
	"io"
)

// ErrOutOfRange is returned when a seek would leave the cursor outside the line slice
var ErrOutOfRange = errors.New("line cursor out of range")

// Cursor is a forward iterator over materialized lines that can be repositioned.
// The parser uses it to un-read a line that turned out to start the next block.
type Cursor struct {
	lines []string
	index int
}

// NewCursor creates a cursor positioned before the first line
func NewCursor(lines []string) *Cursor {
	return &Cursor{lines: lines}
}

// Next returns the next line and advances the cursor. ok is false at end of input.
func (c *Cursor) Next() (line string, ok bool) {
	if c.index >= len(c.lines) {
		return "", false
	}
	line = c.lines[c.index]
	c.index++
	return line, true
}

// Seek repositions the cursor. whence is io.SeekStart or io.SeekCurrent.
// The resulting position must lie in [0, len(lines)); on failure the cursor is unchanged.
func (c *Cursor) Seek(offset int, whence int) error {
	var pos int
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = c.index + offset
	default:
		return fmt.Errorf("invalid whence %d", whence)
	}

	if pos < 0 || pos >= len(c.lines) {
		return fmt.Errorf("%w: position %d, %d lines", ErrOutOfRange, pos, len(c.lines))
	}
	c.index = pos
	return nil
}

// Position returns the index of the line Next will return
func (c *Cursor) Position() int {
	return c.index
}

// Len returns the number of lines
func (c *Cursor) Len() int {
	return len(c.lines)
}
