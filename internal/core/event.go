package core

import "volpanel/internal/domain"

// EventType represents the type of panel input.
type EventType string

const (
	// EventSliderInput fires while the slider is being dragged.
	EventSliderInput EventType = "SliderInput"
	// EventSliderChange fires once when the slider is released.
	EventSliderChange EventType = "SliderChange"
	EventMuteClick    EventType = "MuteClick"
	EventRefreshClick EventType = "RefreshClick"
	// EventStateLoaded carries a state that arrived from the backend.
	EventStateLoaded EventType = "StateLoaded"
)

// Event represents an input to the panel.
type Event struct {
	Type   EventType
	Volume int
	State  domain.AudioState
}

// EffectType represents the type of backend call to be performed.
type EffectType string

const (
	EffectFetchState EffectType = "FetchState"
	EffectSetVolume  EffectType = "SetVolume"
	EffectToggleMute EffectType = "ToggleMute"
)

// Effect represents a backend call that the adapter layer should perform.
// HandleEvent produces Effects without executing them.
type Effect struct {
	Type   EffectType
	Volume int
}

// SliderInput builds a drag event.
func SliderInput(percent int) Event {
	return Event{Type: EventSliderInput, Volume: percent}
}

// SliderChange builds a release event.
func SliderChange(percent int) Event {
	return Event{Type: EventSliderChange, Volume: percent}
}

// StateLoaded builds the event that renders a backend state.
func StateLoaded(s domain.AudioState) Event {
	return Event{Type: EventStateLoaded, State: s}
}

// MuteClick and RefreshClick carry no data.
var (
	MuteClick    = Event{Type: EventMuteClick}
	RefreshClick = Event{Type: EventRefreshClick}
)
