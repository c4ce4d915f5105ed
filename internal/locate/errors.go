package locate

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrOutOfBounds        = errors.New("out of bounds")
	ErrStructuralMismatch = errors.New("structural mismatch")
	ErrInvalidTarget      = errors.New("invalid target")
)

// NotFoundError reports an absent occurrence, heading, table or index.
// Requested and Found are only meaningful for occurrence searches.
type NotFoundError struct {
	What      string
	Requested int
	Found     int
}

func (e *NotFoundError) Error() string {
	if e.Requested > 0 {
		return fmt.Sprintf("occurrence %d of %s not found (%d found)", e.Requested, e.What, e.Found)
	}
	return e.What + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// OutOfBoundsError names the axis that was exceeded and the actual extent.
type OutOfBoundsError struct {
	Axis      string
	Requested int
	Limit     int
	Row       int
}

func (e *OutOfBoundsError) Error() string {
	if e.Axis == "column" {
		return fmt.Sprintf("column %d out of bounds: row %d has %d columns", e.Requested, e.Row, e.Limit)
	}
	return fmt.Sprintf("%s %d out of bounds: table has %d %ss", e.Axis, e.Requested, e.Limit, e.Axis)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// StructuralMismatchError reports an index that lies inside the document but
// in a region that holds no paragraph, such as a section break.
type StructuralMismatchError struct {
	Index  int64
	Region string
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("index %d falls in a non-paragraph structural region (%s)", e.Index, e.Region)
}

func (e *StructuralMismatchError) Unwrap() error {
	return ErrStructuralMismatch
}

func invalidTarget(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTarget, fmt.Sprintf(format, args...))
}
