// Package ui renders resolution results for terminals.
package ui
