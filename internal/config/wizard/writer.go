package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imamik/appstack/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteStack writes the stack to a YAML file with a descriptive header.
func WriteStack(stack *config.Stack, outputPath string) error {
	yamlBytes, err := MarshalStack(stack)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath, stack))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// MarshalStack renders the wizard-settable subset of a stack, keeping field
// order stable and omitting anything left at its default.
func MarshalStack(stack *config.Stack) ([]byte, error) {
	out, err := yaml.Marshal(buildMinimalStack(stack))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stack: %w", err)
	}
	return out, nil
}

// MinimalStack is the YAML layout written by the wizard. Field names match
// the stack file's JSON names so config.LoadFile reads it back.
type MinimalStack struct {
	Name           string           `yaml:"name"`
	Namespace      string           `yaml:"namespace,omitempty"`
	Domain         string           `yaml:"domain,omitempty"`
	DNSZoneName    string           `yaml:"dnsZoneName,omitempty"`
	Replicas       *int32           `yaml:"replicas,omitempty"`
	MinAvailable   *int32           `yaml:"minAvailable,omitempty"`
	MaxUnavailable *int32           `yaml:"maxUnavailable,omitempty"`
	Container      MinimalContainer `yaml:"container"`
}

// MinimalContainer contains the container settings the wizard asks for.
type MinimalContainer struct {
	Image  string             `yaml:"image"`
	Port   *int32             `yaml:"port,omitempty"`
	CPU    *MinimalAllocation `yaml:"cpu,omitempty"`
	Memory *MinimalAllocation `yaml:"memory,omitempty"`
}

// MinimalAllocation is a request/limit pair.
type MinimalAllocation struct {
	Request string `yaml:"request,omitempty"`
	Limit   string `yaml:"limit,omitempty"`
}

func buildMinimalStack(stack *config.Stack) *MinimalStack {
	m := &MinimalStack{
		Name:        stack.Name,
		Namespace:   stack.Namespace,
		Domain:      stack.Domain,
		DNSZoneName: stack.DNSZoneName,
		Replicas:    stack.Replicas,
		Container: MinimalContainer{
			Image: stack.Container.Image,
			Port:  stack.Container.Port,
		},
	}
	if stack.MinAvailable != nil {
		v := stack.MinAvailable.IntVal
		m.MinAvailable = &v
	}
	if stack.MaxUnavailable != nil {
		v := stack.MaxUnavailable.IntVal
		m.MaxUnavailable = &v
	}
	if a := stack.Container.CPU; a != nil {
		m.Container.CPU = &MinimalAllocation{Request: a.Request, Limit: a.Limit}
	}
	if a := stack.Container.Memory; a != nil {
		m.Container.Memory = &MinimalAllocation{Request: a.Request, Limit: a.Limit}
	}
	return m
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string, stack *config.Stack) string {
	env := "#   (none, this stack is not publicly exposed)"
	if stack.Domain != "" {
		env = `#   HCLOUD_TOKEN - Hetzner Cloud API token (address reservation)
#   CF_API_TOKEN - Cloudflare API token (DNS record)`
	}
	return fmt.Sprintf(`# appstack stack file
# Generated by: appstack init
# Generated at: %s
#
# Required environment variables:
%s
#
# Usage:
#   appstack render -c %s
#   appstack apply -c %s
`, time.Now().Format(time.RFC3339), env, outputPath, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
