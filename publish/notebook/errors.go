package notebook

import "errors"

var (
	// ErrDuplicateTag reports a notebook carrying more than one header or
	// footer cell.
	ErrDuplicateTag = errors.New("notebook: duplicate tag")

	// ErrUnsupportedFormat reports a notebook whose nbformat version is
	// older than 4.
	ErrUnsupportedFormat = errors.New("notebook: unsupported nbformat")
)
