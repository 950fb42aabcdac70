package core

import (
	"fmt"

	"volpanel/internal/domain"
)

// HandleEvent is a pure function that takes the current view and an event,
// and returns the new view along with the backend calls to perform.
func HandleEvent(v View, e Event) (View, []Effect, error) {
	switch e.Type {
	case EventSliderInput:
		// Drag updates are optimistic and local only.
		setSlider(&v, domain.ClampVolume(e.Volume))
		return v, nil, nil

	case EventSliderChange:
		percent := domain.ClampVolume(e.Volume)
		setSlider(&v, percent)
		return v, []Effect{{Type: EffectSetVolume, Volume: percent}}, nil

	case EventMuteClick:
		return v, []Effect{{Type: EffectToggleMute}}, nil

	case EventRefreshClick:
		return v, []Effect{{Type: EffectFetchState}}, nil

	case EventStateLoaded:
		Render(&v, e.State)
		return v, nil, nil

	default:
		return v, nil, fmt.Errorf("unknown event type: %s", e.Type)
	}
}
