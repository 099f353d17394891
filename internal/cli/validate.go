package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/qsortprop/internal/config"
	"github.com/roach88/qsortprop/internal/harness"
)

// File kinds recognized by validate.
const (
	KindProfile  = "profile"
	KindScenario = "scenario"
)

// FileValidation holds the validation result for one file.
type FileValidation struct {
	Path     string   `json:"path"`
	Kind     string   `json:"kind"`
	Valid    bool     `json:"valid"`
	Error    string   `json:"error,omitempty"`
	Profiles []string `json:"profiles,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate profile and scenario files",
		Long: `Validate CUE profile files (.cue) and YAML scenario files (.yaml, .yml)
without running anything.

Profiles are checked against the #Profile schema; scenarios are parsed
strictly, rejecting unknown fields.

Exit codes:
  0 - All files valid
  1 - One or more files invalid
  2 - Command error (missing file, unknown extension)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("file not found: %s", path))
		}

		fv, ok := validateFile(path)
		if !ok {
			return outputValidateError(formatter, ErrCodeGeneric, fmt.Sprintf("unsupported file type: %s", path))
		}
		formatter.VerboseLog("Validated %s %s: valid=%t", fv.Kind, path, fv.Valid)

		result.Files = append(result.Files, fv)
		if !fv.Valid {
			result.Valid = false
		}
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// validateFile validates one file by extension. ok is false for
// unsupported extensions.
func validateFile(path string) (fv FileValidation, ok bool) {
	fv = FileValidation{Path: path, Valid: true}

	switch filepath.Ext(path) {
	case ".cue":
		fv.Kind = KindProfile
		set, err := config.Load(path)
		if err != nil {
			fv.Valid = false
			fv.Error = err.Error()
			return fv, true
		}
		fv.Profiles = set.Names()
	case ".yaml", ".yml":
		fv.Kind = KindScenario
		if _, err := harness.LoadScenario(path); err != nil {
			fv.Valid = false
			fv.Error = err.Error()
		}
	default:
		return fv, false
	}

	return fv, true
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, f := range result.Files {
		if len(f.Profiles) > 0 {
			fmt.Fprintf(formatter.Writer, "✓ %s (%s: %v)\n", f.Path, f.Kind, f.Profiles)
		} else {
			fmt.Fprintf(formatter.Writer, "✓ %s (%s)\n", f.Path, f.Kind)
		}
	}
	fmt.Fprintln(formatter.Writer, "✓ All files valid")
	return nil
}

// outputValidateError outputs a single command-level error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs per-file validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	invalid := 0
	for _, f := range result.Files {
		if !f.Valid {
			invalid++
		}
	}

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeInvalidFile,
				Message: fmt.Sprintf("%d invalid file(s)", invalid),
			},
		}
		if err := writeJSON(formatter.Writer, response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", invalid))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, f := range result.Files {
		if f.Valid {
			continue
		}
		fmt.Fprintf(formatter.Writer, "%s (%s)\n", f.Path, f.Kind)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", ErrCodeInvalidFile, f.Error)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", invalid))
}
