// Package naming provides the deterministic child names of a stack.
//
// Every resource a stack creates is named {stack}-{kind}, so repeated runs
// address the same logical resources and composers can stay idempotent.
package naming
