package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/appstack/internal/orchestration"
	"github.com/imamik/appstack/internal/provisioning"
)

// Render resolves a stack without touching any provider and prints the
// Kubernetes manifests it would apply. The address and DNS record are
// simulated with orchestration.PlaceholderIP.
//
// With outputPath set the manifests are written to that file instead of
// stdout.
func Render(ctx context.Context, configPath, outputPath string) error {
	stacks, err := loadStacks(pathList(configPath))
	if err != nil {
		return err
	}
	stack := stacks[0]

	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	composers, recorder := orchestration.NewRenderComposers(settings.Kubernetes)
	if _, err := provisioning.Provision(ctx, stack, composers); err != nil {
		return fmt.Errorf("failed to render %s: %w", stack.Name, err)
	}

	manifest, err := recorder.Manifest()
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Print(string(manifest))
		return nil
	}
	if err := writeFile(outputPath, manifest, 0600); err != nil {
		return fmt.Errorf("failed to write manifests: %w", err)
	}
	fmt.Printf("Wrote %d objects to %s\n", len(recorder.Objects()), outputPath)
	return nil
}

func pathList(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}
