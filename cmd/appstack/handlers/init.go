package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/imamik/appstack/internal/config"
	"github.com/imamik/appstack/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists       = wizard.FileExists
	wizardConfirmOverwrite = wizard.ConfirmOverwrite
	wizardRunWizard        = wizard.RunWizard
	wizardBuildStack       = wizard.BuildStack
	wizardWriteStack       = wizard.WriteStack
)

// errInitNeedsTTY is returned when init is run without a terminal.
var errInitNeedsTTY = errors.New("init is interactive and needs a terminal; write the stack file by hand instead")

// Init runs the stack wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string) error {
	if !isTerminal(os.Stdin) {
		return errInitNeedsTTY
	}

	if wizardFileExists(outputPath) {
		ok, err := wizardConfirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	printWelcome()

	result, err := wizardRunWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	stack := wizardBuildStack(result)
	if err := stack.Validate(); err != nil {
		return err
	}

	if err := wizardWriteStack(stack, outputPath); err != nil {
		return fmt.Errorf("failed to write stack: %w", err)
	}

	printInitSuccess(outputPath, stack)
	return nil
}

func printWelcome() {
	fmt.Println()
	fmt.Println("appstack - application stacks on Kubernetes")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("This wizard creates a stack file. Everything not asked keeps its default.")
	fmt.Println()
}

func printInitSuccess(outputPath string, stack *config.Stack) {
	fmt.Println()
	fmt.Println("Stack saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Stack Summary")
	fmt.Println("-------------")
	fmt.Printf("  Name:      %s\n", stack.Name)
	if stack.Namespace != "" {
		fmt.Printf("  Namespace: %s (existing)\n", stack.Namespace)
	}
	fmt.Printf("  Image:     %s\n", stack.Container.Image)
	if stack.Container.HasPort() {
		fmt.Printf("  Port:      %d\n", *stack.Container.Port)
	}
	if stack.Domain != "" {
		fmt.Printf("  Domain:    %s (zone %s)\n", stack.Domain, stack.DNSZoneName)
	}
	fmt.Println()

	fmt.Println("Next steps:")
	fmt.Printf("  1. Preview the manifests: appstack render -c %s\n", outputPath)
	if stack.Domain != "" {
		fmt.Println("  2. Export HCLOUD_TOKEN and CF_API_TOKEN")
		fmt.Printf("  3. Apply: appstack apply -c %s\n", outputPath)
	} else {
		fmt.Printf("  2. Apply: appstack apply -c %s\n", outputPath)
	}
	fmt.Println()
}
