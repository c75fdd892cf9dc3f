// Package errors provides structured, coded errors for the store runtime and
// the vstore CLI.
//
// Every runtime condition the store machinery raises itself (as opposed to
// errors returned by user actions, which are never wrapped) has a code that maps to:
//   - a category
//   - a short message
//   - a longer explanation
//
// # Categories
//
//   - registry: active-registry resolution and store identity
//   - action: action lookup and pending-result failures
//   - config: vstore.json loading and validation
//   - cli: scenario and document handling in the vstore command
//
// # Usage
//
//	err := errors.New("S001").
//	    WithDetail(`store "cart" was accessed with no registry`).
//	    WithSuggestion("Call store.SetActive(store.NewRegistry()) first")
//
//	fmt.Println(err.Format())
//
// Errors compare by code with errors.Is, so a fresh New("S001") matches any
// other S001 error regardless of detail.
package errors
