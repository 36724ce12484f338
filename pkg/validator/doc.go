// Package validator provides declarative field validation built from small
// Rule values, each pairing a boolean Check with the error to report when the
// check fails.
//
// Rules are evaluated with Apply, which runs every rule and aggregates the
// failures into a ValidationErrors slice implementing the error interface.
// Callers therefore receive all field-level problems in a single pass instead
// of fixing them one resubmission at a time.
//
// # Usage
//
//	err := validator.Apply(
//	    validator.ValidEmail("email", email),
//	    validator.MinLenString("password", password, 8),
//	)
//	if err != nil {
//	    if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	        // map field-level messages into the response
//	    }
//	}
//
// # Error Handling
//
// ValidationErrors can be recovered from a wrapped error chain with
// ExtractValidationErrors or detected with IsValidationError. Individual
// failures are inspected with Has, Get, and Fields.
//
// Every rule is a pure comparison with no hidden state, so rules are cheap to
// construct inline and safe to use from concurrent goroutines.
package validator
