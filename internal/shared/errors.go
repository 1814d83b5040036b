package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig  = fmt.Errorf("configuration not found")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
	ErrInvalidTarget  = fmt.Errorf("invalid sync target")
	ErrUnknownRename  = fmt.Errorf("unknown rename callback")
	ErrUnknownKind    = fmt.Errorf("unknown sync target kind")
	ErrEmptyQueue     = fmt.Errorf("no sync targets")
	ErrDuplicateEntry = fmt.Errorf("already registered")

	// Catalog and filesystem errors
	ErrNotFound       = fmt.Errorf("not found")
	ErrTreeNotFound   = fmt.Errorf("tree not found")
	ErrTrackNotFound  = fmt.Errorf("track not found")
	ErrUnreadableFile = fmt.Errorf("unreadable file")
	ErrTreeMissing    = fmt.Errorf("tree path not available")

	// External tool errors
	ErrExternalTool = fmt.Errorf("external tool failed")
	ErrCodecCommand = fmt.Errorf("invalid codec command")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
