// Package errors provides structured error types for better observability
// and programmatic error handling across the prober.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTimeout,
//	    "remote command did not complete",
//	    ctx.Err(),
//	    map[string]any{
//	        "command": "nvidia-smi --query-gpu=memory.free --format=csv",
//	        "host":    "ML-01",
//	    },
//	)
//
// CodeOf recovers the classification from anywhere in a wrapped chain, which
// is how the prober maps failures onto host outcomes:
//
//	switch errors.CodeOf(err) {
//	case errors.ErrCodeUnavailable:
//	    // host unreachable
//	case errors.ErrCodeTimeout:
//	    // deadline exceeded
//	}
package errors
