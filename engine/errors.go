package engine

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned when a computation that needs at least one
// row is asked to work on an empty subset.
var ErrEmptySelection = errors.New("selection matched no launches")

// DataLoadError reports a dataset that could not be read, parsed or
// validated. It is fatal at startup.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load launch dataset: %v", e.Err)
	}
	return fmt.Sprintf("load launch dataset %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }
