// Package errors provides structured, coded errors for formguard.
//
// Every error has a code (e.g. "F001") registered with a category, a short
// message, a longer explanation and, where useful, a fix suggestion. Errors
// raised while reading a file (config, HTML) can carry a location; the
// surrounding lines are loaded so Format can point at the problem.
//
// # Error Categories
//
//   - config: form construction and config file errors
//   - validation: a form has invalid fields
//   - input: HTML documents and field assignments
//   - protocol: HTTP and websocket requests
//   - cli: command-line failures
//
// # Usage
//
//	err := errors.New("F024").
//	    WithLocation("formguard.yaml", 4, 14).
//	    WithSuggestion("Close the group: ([0-9])")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR F024: Invalid rule pattern
//	//
//	//   formguard.yaml:4:14
//	//
//	//        2 │   zip:
//	//        3 │     type: pattern
//	//   →    4 │     pattern: "([0-9]"
//	//          │              ^
//	//        5 │ log:
//	//
//	//   Hint: Close the group: ([0-9])
//
// *Error implements Unwrap, so sentinel errors wrapped with Wrap remain
// visible to errors.Is.
package errors
