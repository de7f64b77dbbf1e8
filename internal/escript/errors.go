package escript

// AssembleError indicates the final packing or write failed. The underlying
// cause is surfaced verbatim.
type AssembleError struct {
	Err error
}

func (e *AssembleError) Error() string {
	return "assembling archive: " + e.Err.Error()
}

func (e *AssembleError) Unwrap() error {
	return e.Err
}
