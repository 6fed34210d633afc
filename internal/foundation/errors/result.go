package errors

// Result is the outcome of a pipeline operation: either success or a
// (kind, message) failure pair. The zero value is success.
type Result struct {
	kind    ErrorCategory
	message string
	err     error
}

// OK returns the success marker.
func OK() Result { return Result{} }

// Fail converts err into a failed Result. Unclassified errors become CategoryUnknown.
// A nil err yields success.
func Fail(err error) Result {
	if err == nil {
		return Result{}
	}
	if classified, ok := AsClassified(err); ok {
		return Result{kind: classified.Category(), message: classified.Message(), err: err}
	}
	return Result{kind: CategoryUnknown, message: err.Error(), err: err}
}

// Ok reports whether the operation succeeded.
func (r Result) Ok() bool { return r.err == nil }

// Kind returns the failure category, or "" on success.
func (r Result) Kind() ErrorCategory { return r.kind }

// Message returns the failure message, or "" on success.
func (r Result) Message() string { return r.message }

// Err returns the underlying error, or nil on success.
func (r Result) Err() error { return r.err }
