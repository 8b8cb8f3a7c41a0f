package orm

import "errors"

var (
	// ErrConfig is returned by New for missing or invalid options.
	ErrConfig = errors.New("invalid session configuration")
	// ErrModelExists is returned when a table is registered twice on one Session.
	ErrModelExists = errors.New("model already registered")
	// ErrUnknownColumn is returned when a value is set for an undeclared column.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrForeignInstance is returned when an instance is inserted through another model.
	ErrForeignInstance = errors.New("instance belongs to another model")
)
