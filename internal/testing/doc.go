// Package testing provides test utilities, builders, and fakes for unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - StackBuilder: Fluent builder for creating test stacks
//   - RecordingComposers: In-memory composers that record every call in order
//   - MockComposers: testify mock of provisioning.Composers
//
// Usage:
//
//	stack := testing.NewStackBuilder("api").
//	    WithPort(8080).
//	    WithDomain("api.example.com", "example.com").
//	    Build()
//
//	rec := testing.NewRecordingComposers()
//	state, err := provisioning.Provision(ctx, stack, rec)
package testing
