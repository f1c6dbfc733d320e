package voxels

import "errors"

// Error taxonomy. Geometric clipping is never an error: regions partly
// outside the grid are clipped silently and single-block accessors report a
// miss through their return value. Only malformed packed input or degenerate
// construction aborts an operation.
var (
	// ErrOutOfRange reports a block coordinate outside the grid's index.
	ErrOutOfRange = errors.New("voxels: coordinate out of range")
	// ErrCorruptBlockData reports a block payload that cannot be decoded.
	ErrCorruptBlockData = errors.New("voxels: corrupt block data")
	// ErrTruncatedBlob reports a packed grid shorter than its declared contents.
	ErrTruncatedBlob = errors.New("voxels: truncated packed grid")
	// ErrDimensionMismatch reports a packed grid whose header and contents disagree.
	ErrDimensionMismatch = errors.New("voxels: dimension mismatch")
	// ErrInvalidConstruction reports zero or degenerate creation parameters.
	ErrInvalidConstruction = errors.New("voxels: invalid grid construction")
)
