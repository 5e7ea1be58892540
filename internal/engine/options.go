package engine

// timelineConfig is the per-timeline option set.
type timelineConfig struct {
	autoplay   bool
	autoremove bool
	markers    map[string]float64
	onFinish   func(*Timeline)
	onLoop     func(*Timeline)
}

func defaultTimelineConfig() timelineConfig {
	return timelineConfig{
		autoplay:   true,
		autoremove: true,
	}
}

// TimelineOption configures a Timeline.
type TimelineOption func(*timelineConfig)

// WithAutoplay controls whether Add starts playback. Default: true.
func WithAutoplay(v bool) TimelineOption {
	return func(c *timelineConfig) { c.autoplay = v }
}

// WithAutoremove controls whether finishing removes the timeline from the
// scheduler. Default: true.
func WithAutoremove(v bool) TimelineOption {
	return func(c *timelineConfig) { c.autoremove = v }
}

// WithMarkers sets the named times accepted by Marker references.
// The map is copied.
func WithMarkers(m map[string]float64) TimelineOption {
	return func(c *timelineConfig) {
		c.markers = make(map[string]float64, len(m))
		for k, v := range m {
			c.markers[k] = v
		}
	}
}

// WithOnFinish sets the callback run when the timeline finishes.
func WithOnFinish(fn func(*Timeline)) TimelineOption {
	return func(c *timelineConfig) { c.onFinish = fn }
}

// WithOnLoop sets the callback run each time the timeline loops.
func WithOnLoop(fn func(*Timeline)) TimelineOption {
	return func(c *timelineConfig) { c.onLoop = fn }
}
