package workspace

import "errors"

// Precondition violations. These signal programming errors in the caller and
// are not meant to be retried.
var (
	// ErrIndexOutOfRange is returned when a field index falls outside the row.
	ErrIndexOutOfRange = errors.New("field index out of range")

	// ErrEmptyName is returned when a value or statement input is created
	// without a name.
	ErrEmptyName = errors.New("input name must not be empty")

	// ErrDuplicateInput is returned when an input name is already taken on the
	// owning block.
	ErrDuplicateInput = errors.New("duplicate input name")

	// ErrNilField is returned when a nil field is inserted under a name.
	ErrNilField = errors.New("nil field")
)

// Not-found conditions.
var (
	// ErrFieldNotFound is returned by RemoveField for an unknown field name.
	// Callers are expected to know a field exists before removing it.
	ErrFieldNotFound = errors.New("field not found")

	// ErrBlockNotFound is returned when a block ID is not present in the arena.
	ErrBlockNotFound = errors.New("block not found")
)

// Invalid-state conditions.
var (
	// ErrNoConnection is returned when a connection operation is attempted on
	// an input that was constructed without one.
	ErrNoConnection = errors.New("input has no connection")

	// ErrDisposed is returned when an operation is attempted on a disposed
	// input, connection or block.
	ErrDisposed = errors.New("operation on disposed object")

	// ErrHeadless is returned when a rendering operation is attempted on a
	// workspace without a renderer.
	ErrHeadless = errors.New("workspace has no renderer")
)

// Connection linking failures.
var (
	// ErrAlreadyConnected is returned when either endpoint is already linked.
	ErrAlreadyConnected = errors.New("connection is already connected")

	// ErrNotConnected is returned by Disconnect on an unlinked connection.
	ErrNotConnected = errors.New("connection is not connected")

	// ErrSelfConnection is returned when both endpoints belong to one block.
	ErrSelfConnection = errors.New("cannot connect a block to itself")

	// ErrIncompatibleConnection is returned when directionality or type checks
	// reject the link.
	ErrIncompatibleConnection = errors.New("incompatible connection")
)
