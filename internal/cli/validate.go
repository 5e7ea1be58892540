package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/keyframe/internal/compiler"
	"github.com/roach88/keyframe/internal/ir"
	"github.com/roach88/keyframe/internal/present"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Scene    string                     `json:"scene,omitempty"`
	Targets  int                        `json:"targets"`
	Tracks   int                        `json:"tracks"`
	Duration float64                    `json:"duration"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scene.cue>",
		Short: "Validate a scene without playing it",
		Long: `Compile every keyframe set of a CUE scene and report coded errors.

All errors are reported, not just the first. Property names are resolved
against the scene's own elements the way a headless run resolves them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	scene, err := loadScene(path)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Pos.IsValid() {
			return outputValidationErrors(formatter, []compiler.ValidationError{{
				Field:   "cue",
				Message: le.Message,
				Code:    ir.ErrorCode(le.Code),
				Line:    lineOf(le.Pos),
			}})
		}
		return outputValidateError(formatter, errorCode(err), err.Error())
	}
	formatter.VerboseLog("Loaded scene %q with %d target(s)", scene.Name, len(scene.Targets))

	doc := present.FromScene(scene)
	if errs := compiler.ValidateScene(scene, doc); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	anim, err := scene.Compile(doc.Target, doc)
	if err != nil {
		return outputValidateError(formatter, errorCode(err), err.Error())
	}

	result := ValidationResult{
		Valid:    true,
		Scene:    scene.Name,
		Targets:  len(anim.Targets),
		Duration: anim.EndTime,
	}
	for _, tt := range anim.Targets {
		result.Tracks += len(tt.Tracks)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Scene valid: %d target(s), %d track(s), duration %gms\n",
		result.Targets, result.Tracks, result.Duration)
	return nil
}

func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	if formatter.JSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    string(errs[0].Code),
				Message: errs[0].Message,
			},
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}
	return failure
}
