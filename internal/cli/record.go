package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/keyframe/internal/ir"
	"github.com/roach88/keyframe/internal/present"
	"github.com/roach88/keyframe/internal/store"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	PlaybackOptions
	Database string
	RunID    string
}

// RecordResult is the record command output.
type RecordResult struct {
	RunID     string `json:"run_id"`
	Scene     string `json:"scene"`
	Timeline  string `json:"timeline"`
	SceneHash string `json:"scene_hash"`
	Ran       int    `json:"frames_run"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <scene.cue>",
		Short: "Play a scene headlessly and store the run",
		Long: `Play a scene on a manual clock and persist every document write and
lifecycle event to a SQLite trace store. Read it back with "keyframe trace".

Examples:
  keyframe record ./scenes/slide.cue --db ./runs.db
  keyframe record ./scenes/slide.cue --db ./runs.db --run slide-a --fps 30`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, args[0], cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id (default: generated UUIDv7)")

	return cmd
}

func runRecord(opts *RecordOptions, path string, cmd *cobra.Command) error {
	if err := opts.validate(); err != nil {
		return err
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	scene, err := loadScene(path)
	if err != nil {
		_ = formatter.Fail(err)
		return WrapExitError(ExitCommandError, "failed to load scene", err)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read scene", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	writer, err := st.NewRunWriter(ctx, store.Run{
		ID:        opts.RunID,
		Scene:     sceneName(scene, path),
		FPS:       opts.FPS,
		Duration:  opts.Duration,
		SceneHash: ir.SceneHash(src),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create run", err)
	}

	player, err := present.NewPlayer(scene,
		present.WithSink(writer),
		present.WithEventHook(writer.Hook),
	)
	if err != nil {
		_ = formatter.Fail(err)
		return WrapExitError(ExitFailure, "failed to start scene", err)
	}

	ran := player.Run(opts.FPS, opts.Duration)
	if err := writer.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	formatter.VerboseLog("Recorded %d frame(s) to %s", ran, opts.Database)

	result := RecordResult{
		RunID:     writer.RunID(),
		Scene:     sceneName(scene, path),
		Timeline:  player.Timeline.ID(),
		SceneHash: ir.SceneHash(src),
		Ran:       ran,
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Recorded run %s: %d frame(s) of %s\n", result.RunID, result.Ran, result.Scene)
	return nil
}
