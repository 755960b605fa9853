package edit

import "errors"

var (
	// ErrAlreadyEdited means a manipulation with the same key is staged.
	ErrAlreadyEdited = errors.New("edit: entry is already edited")
	// ErrInvalidCombination means the key has no backing table, such as an
	// impossible race and gender pairing.
	ErrInvalidCombination = errors.New("edit: key combination can not be used")
	// ErrTableMissing means the targeted table does not exist.
	ErrTableMissing = errors.New("edit: target table does not exist")
	// ErrManipulationNotFound means Change was called for an absent key.
	ErrManipulationNotFound = errors.New("edit: manipulation not found")
	// ErrOutOfRange means the value lies outside its field's range.
	ErrOutOfRange = errors.New("edit: value out of range")
)
