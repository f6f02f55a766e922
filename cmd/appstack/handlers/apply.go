// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/appstack/internal/config"
	"github.com/imamik/appstack/internal/orchestration"
	"github.com/imamik/appstack/internal/platform/s3"
	"github.com/imamik/appstack/internal/provisioning"
	"github.com/imamik/appstack/internal/ui"
	"github.com/imamik/appstack/internal/ui/tui"
)

// Output formats accepted by apply and render.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// reportUploader stores an outputs report. Implemented by *s3.Client.
type reportUploader interface {
	Upload(ctx context.Context, bucket, key, contentType string, data []byte) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// findConfigFile resolves the stack file path.
	findConfigFile = config.FindConfigFile

	// loadStackFile loads a stack from file.
	loadStackFile = config.LoadFile

	// loadSettings reads provider settings from the environment.
	loadSettings = config.LoadSettings

	// newLiveComposers creates composers backed by the real providers.
	newLiveComposers = orchestration.NewLiveComposers

	// newUploader creates the S3 client for report uploads.
	newUploader = func(s config.OutputSettings) (reportUploader, error) {
		return s3.NewClient(s.S3Endpoint, s.S3Region, s.S3AccessKey, s.S3SecretKey)
	}

	// runApplyTUI runs one stack behind the progress view.
	runApplyTUI = tui.RunApplyTUI

	// isTerminal reports whether a file is an interactive terminal.
	isTerminal = ui.IsInteractiveTTY

	// newRunID generates the identifier of one apply run.
	newRunID = uuid.NewString

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile

	// writeTextfile writes a metrics registry in the Prometheus text format.
	writeTextfile = prometheus.WriteToTextfile
)

// ApplyOptions holds the flags of the apply command.
type ApplyOptions struct {
	ConfigPaths     []string
	Output          string
	TUI             bool
	MetricsTextfile string
	UploadOutputs   bool
}

// Apply resolves one or more stacks against the live providers.
//
// The workflow is:
//  1. Load every stack file (auto-detects appstack.yaml when none is given)
//  2. Read provider settings from the environment and check credentials
//  3. Resolve each stack once, in parallel when there are several
//  4. Print the outputs report of each stack and optionally upload it to S3
//  5. Optionally write the resolver metrics to a textfile
//
// A composer failure stops only the failing stack. Its partial report is still
// printed and the first error is returned.
func Apply(ctx context.Context, opts ApplyOptions) error {
	if err := validateFormat(opts.Output); err != nil {
		return err
	}
	stacks, err := loadStacks(opts.ConfigPaths)
	if err != nil {
		return err
	}
	if opts.TUI && len(stacks) > 1 {
		return fmt.Errorf("--tui supports a single stack, got %d", len(stacks))
	}
	if opts.TUI && !isTerminal(os.Stdout) {
		return errors.New("--tui requires an interactive terminal")
	}

	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	for _, stack := range stacks {
		if err := settings.ValidateFor(stack); err != nil {
			return fmt.Errorf("stack %s: %w", stack.Name, err)
		}
	}

	var uploader reportUploader
	if opts.UploadOutputs {
		if !settings.Outputs.UploadEnabled() {
			return errors.New("--upload-outputs requires APPSTACK_S3_ENDPOINT and APPSTACK_S3_BUCKET")
		}
		if uploader, err = newUploader(settings.Outputs); err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
	}

	composers, err := newLiveComposers(settings)
	if err != nil {
		return fmt.Errorf("failed to initialize providers: %w", err)
	}

	var (
		registry *prometheus.Registry
		metrics  *provisioning.Metrics
	)
	if opts.MetricsTextfile != "" {
		registry = prometheus.NewRegistry()
		if metrics, err = provisioning.NewMetrics(registry); err != nil {
			return err
		}
	}

	runID := newRunID()
	results, applyErr := reconcile(ctx, stacks, composers, metrics, runID, opts.TUI)

	format := resolveFormat(opts.Output)
	printed := 0
	for _, res := range results {
		if res.State == nil {
			continue
		}
		outputs := provisioning.BuildOutputs(provisioning.Normalize(res.Stack), res.State, runID)
		if printed > 0 {
			printSeparator(format)
		}
		printed++
		if err := printOutputs(outputs, format); err != nil {
			return err
		}
		if uploader != nil {
			if err := uploadOutputs(ctx, uploader, settings.Outputs.S3Bucket, outputs); err != nil {
				return err
			}
		}
	}

	if registry != nil {
		if err := writeTextfile(opts.MetricsTextfile, registry); err != nil {
			return fmt.Errorf("failed to write metrics textfile: %w", err)
		}
	}

	return applyErr
}

func reconcile(ctx context.Context, stacks []*config.Stack, composers provisioning.Composers, metrics *provisioning.Metrics, runID string, withTUI bool) ([]orchestration.Result, error) {
	if !withTUI {
		return orchestration.NewReconciler(composers, metrics).ReconcileAll(ctx, stacks, runID)
	}

	stack := stacks[0]
	result := orchestration.Result{Stack: stack}
	err := runApplyTUI(ctx, stack.Name, func(ctx context.Context, observer provisioning.Observer) error {
		r := orchestration.NewReconciler(composers, metrics, orchestration.WithObserver(observer))
		state, err := r.Reconcile(ctx, stack, runID)
		result.State = state
		result.Err = err
		return err
	})
	return []orchestration.Result{result}, err
}

// loadStacks loads every stack file. With no paths the default file is used.
func loadStacks(paths []string) ([]*config.Stack, error) {
	if len(paths) == 0 {
		path, err := findConfigFile("")
		if err != nil {
			return nil, err
		}
		paths = []string{path}
	}

	seen := make(map[string]string, len(paths))
	stacks := make([]*config.Stack, 0, len(paths))
	for _, path := range paths {
		stack, err := loadStackFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if prev, ok := seen[stack.Name]; ok {
			return nil, fmt.Errorf("stack %s is defined in both %s and %s", stack.Name, prev, path)
		}
		seen[stack.Name] = path
		stacks = append(stacks, stack)
	}
	return stacks, nil
}

// resolveFormat picks the table on a terminal and YAML otherwise.
func resolveFormat(format string) string {
	if format != "" {
		return format
	}
	if isTerminal(os.Stdout) {
		return FormatTable
	}
	return FormatYAML
}

// validateFormat rejects an unknown -o value before any provider is called.
// Empty picks the default in resolveFormat.
func validateFormat(format string) error {
	switch format {
	case "", FormatTable, FormatYAML, FormatJSON:
		return nil
	}
	return unknownFormatError(format)
}

func unknownFormatError(format string) error {
	return fmt.Errorf("unknown output format %q: must be %s, %s or %s", format, FormatTable, FormatYAML, FormatJSON)
}

func encodeOutputs(o *provisioning.Outputs, format string) ([]byte, error) {
	switch format {
	case FormatTable:
		return []byte(ui.RenderSummary(o)), nil
	case FormatYAML:
		return o.YAML()
	case FormatJSON:
		return o.JSON()
	default:
		return nil, unknownFormatError(format)
	}
}

func printOutputs(o *provisioning.Outputs, format string) error {
	data, err := encodeOutputs(o, format)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	if format == FormatJSON {
		fmt.Println()
	}
	return nil
}

func printSeparator(format string) {
	if format == FormatYAML {
		fmt.Println("---")
		return
	}
	fmt.Println()
}

func uploadOutputs(ctx context.Context, uploader reportUploader, bucket string, o *provisioning.Outputs) error {
	data, err := o.JSON()
	if err != nil {
		return err
	}
	key := s3.ReportKey(o.Stack, o.RunID, FormatJSON)
	if err := uploader.Upload(ctx, bucket, key, "application/json", data); err != nil {
		return fmt.Errorf("failed to upload outputs of %s: %w", o.Stack, err)
	}
	fmt.Fprintf(os.Stderr, "Uploaded outputs to s3://%s/%s\n", bucket, key)
	return nil
}
