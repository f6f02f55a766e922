// Package wizard provides an interactive stack file wizard for appstack.
//
// It uses charmbracelet/huh forms to collect a stack's identity, container,
// exposure and availability settings. RunWizard returns a WizardResult,
// BuildStack converts it into a config.Stack and WriteStack renders the
// YAML output file.
package wizard
