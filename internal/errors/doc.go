// Package errors provides structured, coded errors for the reconciler and
// its command-line tool.
//
// # Error Categories
//
// Errors are organized into categories:
//   - patch: the patch list does not fit the live tree
//   - engine: update cycle discipline was violated
//   - tree: a tree file could not be loaded
//   - config: reconcile.json is unreadable or invalid
//   - cli: command-level failures such as a failed verification
//
// # Usage
//
//	err := errors.New(errors.CodeTreeParse).
//	    WithLocationFromError("old.yaml", yamlErr).
//	    Wrap(yamlErr)
//
//	errors.Print(os.Stderr, err)
//	// ERROR E201: Tree file could not be parsed
//	//
//	//   old.yaml:3
//	//   ...
//
// Errors compare by code, so errors.Is(err, errors.New("E101")) matches any
// E101 error regardless of its detail.
package errors
