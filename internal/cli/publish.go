package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/keyframe/internal/engine"
	"github.com/roach88/keyframe/internal/present"
	"github.com/roach88/keyframe/internal/publish"
)

// PublishOptions holds flags for the publish command.
type PublishOptions struct {
	*RootOptions
	Broker   string
	Topic    string
	ClientID string
	QoS      int
	Retain   bool
	FPS      float64
	Duration time.Duration // 0: until the scene finishes

	dial func(publish.Config) (brokerClient, error)
}

type brokerClient interface {
	publish.Publisher
	Close()
}

// PublishResult is the publish command output.
type PublishResult struct {
	Scene     string `json:"scene"`
	Timeline  string `json:"timeline"`
	Frames    int64  `json:"frames"`
	Published int64  `json:"published"`
	Finished  bool   `json:"finished"`
}

// NewPublishCommand creates the publish command.
func NewPublishCommand(rootOpts *RootOptions) *cobra.Command {
	return newPublishCommand(rootOpts, func(cfg publish.Config) (brokerClient, error) {
		return publish.Dial(cfg)
	})
}

func newPublishCommand(rootOpts *RootOptions, dial func(publish.Config) (brokerClient, error)) *cobra.Command {
	opts := &PublishOptions{RootOptions: rootOpts, dial: dial}

	cmd := &cobra.Command{
		Use:   "publish <scene.cue>",
		Short: "Play a scene in real time and stream values to MQTT",
		Long: `Play a scene on the system clock and publish every value written to
<topic>/<target>/<property> as JSON {"target","property","value","seq"}.

Runs until the scene finishes, --duration elapses or the process is
interrupted.

Examples:
  keyframe publish ./scenes/pulse.cue --broker tcp://localhost:1883 --topic lights
  keyframe publish ./scenes/pulse.cue --broker tcp://localhost:1883 --topic lights --fps 30 --duration 1m`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Broker, "broker", "", "MQTT broker URL (required)")
	_ = cmd.MarkFlagRequired("broker")
	cmd.Flags().StringVar(&opts.Topic, "topic", "keyframe", "topic prefix")
	cmd.Flags().StringVar(&opts.ClientID, "client-id", publish.DefaultClientID, "MQTT client id")
	cmd.Flags().IntVar(&opts.QoS, "qos", 0, "MQTT quality of service (0, 1 or 2)")
	cmd.Flags().BoolVar(&opts.Retain, "retain", false, "publish retained messages")
	cmd.Flags().Float64Var(&opts.FPS, "fps", DefaultFPS, "frame rate of the real-time loop")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "stop after this long (0: until the scene finishes)")

	return cmd
}

func runPublish(opts *PublishOptions, path string, cmd *cobra.Command) error {
	if opts.FPS <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--fps must be positive, got %g", opts.FPS))
	}
	if opts.QoS < 0 || opts.QoS > 2 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--qos must be 0, 1 or 2, got %d", opts.QoS))
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	scene, err := loadScene(path)
	if err != nil {
		_ = formatter.Fail(err)
		return WrapExitError(ExitCommandError, "failed to load scene", err)
	}

	client, err := opts.dial(publish.Config{
		Broker:   opts.Broker,
		ClientID: opts.ClientID,
		Topic:    opts.Topic,
		QoS:      byte(opts.QoS),
		Retain:   opts.Retain,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to connect to broker", err)
	}
	defer client.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}
	ctx, done := context.WithCancel(ctx)
	defer done()

	sink := publish.NewMQTTSink(client, opts.Topic)
	doc := present.FromScene(scene, sink)
	loop := engine.NewFrameLoop(time.Duration(float64(time.Second) / opts.FPS))
	clock := engine.NewSystemClock()
	frames := &stampedFrames{loop: loop, doc: doc, clock: clock}

	var sched *engine.Scheduler
	finished := false
	sched = engine.NewScheduler(
		engine.WithClock(clock),
		engine.WithFrames(frames),
		engine.WithOutput(doc),
		engine.WithIDGenerator(engine.NewSequentialGenerator(scene.Name)),
		engine.WithEventHook(func(e engine.Event) {
			switch e.Kind {
			case engine.EventFinish:
				finished = true
			case engine.EventRemove:
				if len(sched.Timelines()) == 0 {
					done()
				}
			}
		}),
	)

	// the loop is not running yet, so the scheduler can be set up here
	tl, err := sched.AnimateScene(scene, doc.Target)
	if err != nil {
		_ = formatter.Fail(err)
		return WrapExitError(ExitFailure, "failed to start scene", err)
	}
	formatter.VerboseLog("Publishing %s to %s at %g fps", tl.ID(), opts.Broker, opts.FPS)

	_ = loop.Run(ctx)

	result := PublishResult{
		Scene:     sceneName(scene, path),
		Timeline:  tl.ID(),
		Frames:    frames.count,
		Published: sink.Published(),
		Finished:  finished,
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Published %d value(s) over %d frame(s) of %s\n",
		result.Published, result.Frames, result.Scene)
	return nil
}

// stampedFrames numbers frames and stamps the document before each one.
type stampedFrames struct {
	loop  *engine.FrameLoop
	doc   *present.Document
	clock engine.Clock
	count int64
}

func (f *stampedFrames) RequestFrame(fn func()) {
	f.loop.RequestFrame(func() {
		f.count++
		f.doc.BeginFrame(f.count, f.clock.Now())
		fn()
	})
}
