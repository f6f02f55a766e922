package handlers

import (
	"fmt"

	"github.com/imamik/appstack/internal/config"
)

// Validate checks a stack file and prints every finding. Warnings never fail
// the command; any error does.
func Validate(configPath string) error {
	stacks, err := loadStacks(pathList(configPath))
	if err != nil {
		return err
	}
	stack := stacks[0]

	findings := stack.Check()
	errCount := 0
	for _, f := range findings {
		if f.IsError() {
			errCount++
		}
		printFinding(f)
	}

	if errCount > 0 {
		return fmt.Errorf("stack %s has %d error(s)", stack.Name, errCount)
	}
	fmt.Printf("Stack %s is valid (%d warning(s))\n", stack.Name, len(findings))
	return nil
}

func printFinding(f config.ValidationError) {
	fmt.Printf("  %-7s %s: %s\n", f.Severity, f.Field, f.Message)
}
