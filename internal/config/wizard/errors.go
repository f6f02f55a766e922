package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errStackNameRequired = errors.New("stack name is required")
	errStackNameInvalid  = errors.New("stack name must be lowercase alphanumeric characters or hyphens, starting and ending with alphanumeric")
	errNamespaceInvalid  = errors.New("namespace must be a valid DNS label")
	errImageRequired     = errors.New("container image is required")
	errPortInvalid       = errors.New("port must be a number between 1 and 65535")
	errDomainInvalid     = errors.New("domain must be a valid DNS name")
	errZoneMismatch      = errors.New("domain must be inside the DNS zone")
)
