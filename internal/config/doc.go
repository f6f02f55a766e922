// Package config defines the stack file model and the provider settings used
// by every composer.
//
// A [Stack] is the partial, caller-facing description of one application
// stack. Every optional field is a pointer or a nil-able collection, so
// "specified" always means present in the file rather than non-zero. Provider
// credentials and cluster-wide defaults live in [Settings] and come from the
// environment.
package config
