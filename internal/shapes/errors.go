package shapes

import (
	"errors"

	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
)

var (
	// ErrNotAShapeFunction is returned when a value does not match the grammar of
	// the shape function it claims to be.
	ErrNotAShapeFunction = errors.New("not a shape function")
	// ErrInvalidRadius rejects negative radii.
	ErrInvalidRadius = errors.New("invalid radius")
	// ErrAmbiguousOrigin is returned for position strings whose axes cannot be resolved.
	ErrAmbiguousOrigin = errors.New("ambiguous origin")
	// ErrDegenerateBox is returned when a shape must be inferred from an element with no area.
	ErrDegenerateBox = errors.New("degenerate box")

	// ErrInvalidBoxType aliases layout.ErrInvalidBoxType so callers only need this package.
	ErrInvalidBoxType = layout.ErrInvalidBoxType
	// ErrInvalidTarget aliases layout.ErrInvalidTarget.
	ErrInvalidTarget = layout.ErrInvalidTarget
)
