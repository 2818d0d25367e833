// Package results defines the generic operation result returned by service
// methods. Business rejections travel as Failure payloads with a nil error;
// infrastructure faults travel as errors.
package results

// OperationResult carries either a success payload or a failure payload.
// Exactly one of the two is non-nil for a completed operation.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// IsSuccess reports whether the operation produced a success payload.
func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

// IsFailure reports whether the operation produced a failure payload.
func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}

// Succeed wraps a success payload.
func Succeed[S any, F any](payload S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &payload}
}

// Fail wraps a failure payload.
func Fail[S any, F any](payload F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &payload}
}
