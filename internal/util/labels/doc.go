// Package labels builds the label set shared by every resource of a stack.
//
// All keys owned by appstack use the appstack.io domain prefix. The identity
// key is always merged last, so a caller can never override it.
package labels
