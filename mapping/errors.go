package mapping

import "errors"

// Configuration errors of the one-shot resolution phase. They are
// deterministic: re-running with unchanged inputs reproduces them.
var (
	// ErrInvalidDirection rejects a requirement whose direction is
	// unspecified. Directions are never defaulted.
	ErrInvalidDirection = errors.New("mapping: requirement direction must be input or output")

	// ErrLackOfPdo means the configurable PDOs cannot hold the
	// entries left over after fixed-PDO selection.
	ErrLackOfPdo = errors.New("mapping: not enough configurable pdos to map the required entries")

	// ErrLackOfSync means the sync managers cannot transmit all PDOs
	// the solution uses.
	ErrLackOfSync = errors.New("mapping: not enough sync managers to transmit the used pdos")

	// ErrUnknownEntry is returned by FieldFor for an entry that was
	// never required or whose slave was never resolved.
	ErrUnknownEntry = errors.New("mapping: entry was not required or not resolved")

	// ErrNoDictEntry means a required entry is missing from the
	// dictionary, so its width is unknown.
	ErrNoDictEntry = errors.New("mapping: entry missing from dictionary")

	// ErrTypeMismatch means the value type requested from FieldFor
	// disagrees with the dictionary type of the entry.
	ErrTypeMismatch = errors.New("mapping: field type does not match dictionary entry")
)
