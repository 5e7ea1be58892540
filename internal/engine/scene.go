package engine

import (
	"github.com/roach88/keyframe/internal/compiler"
	"github.com/roach88/keyframe/internal/ir"
)

// AnimateScene compiles a scene document and registers a timeline
// configured from it. resolve maps element ids to presentation targets.
//
// Loop, rate and range are applied before the timeline is added so that
// autoplay starts with the authored settings. Options in opts override the
// scene's autoplay, autoremove and markers.
func (s *Scheduler) AnimateScene(scene *compiler.Scene, resolve func(id string) ir.Target, opts ...TimelineOption) (*Timeline, error) {
	anim, err := scene.Compile(resolve, s.resolver)
	if err != nil {
		return nil, err
	}

	all := append([]TimelineOption{
		WithAutoplay(scene.Autoplay),
		WithAutoremove(scene.Autoremove),
		WithMarkers(scene.Markers),
	}, opts...)
	tl := s.NewTimeline(anim, all...)

	tl.SetLoop(scene.Loop)
	if err := tl.SetRate(scene.Rate); err != nil {
		return nil, err
	}
	switch len(scene.Range) {
	case 1:
		err = tl.SetRangeFrom(Ms(scene.Range[0]))
	case 2:
		err = tl.SetRange(Ms(scene.Range[0]), Ms(scene.Range[1]))
	}
	if err != nil {
		return nil, err
	}

	if err := s.Add(tl); err != nil {
		return nil, err
	}
	return tl, nil
}
