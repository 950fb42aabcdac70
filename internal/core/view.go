package core

import (
	"fmt"

	"volpanel/internal/domain"
)

const (
	MuteLabel   = "Mute"
	UnmuteLabel = "Unmute"

	MutedText   = "🔇 Muted"
	UnmutedText = "🔊 Unmuted"

	MutedClass   = "mute-indicator muted"
	UnmutedClass = "mute-indicator unmuted"
)

// View holds every visible element of the volume panel. It is built once by
// NewView and passed explicitly to whoever handles events; nothing else
// keeps references to the elements.
type View struct {
	SliderValue int
	VolumeValue string // percentage readout next to the slider
	VolumeText  string // header label
	FillWidth   int    // filled share of the slider track, in percent
	FillMuted   bool

	MuteButton  string
	MuteStatus  string
	StatusClass string
}

// NewView returns a view with nothing rendered yet.
func NewView() View {
	return View{}
}

// Render writes state into the view. It touches no backend and is
// idempotent: rendering the same state twice leaves the same view.
func Render(v *View, s domain.AudioState) {
	setSlider(v, s.VolumePercent)
	v.VolumeText = fmt.Sprintf("Volume: %d%%", s.VolumePercent)
	v.FillMuted = s.IsMuted

	if s.IsMuted {
		v.MuteButton = UnmuteLabel
		v.MuteStatus = MutedText
		v.StatusClass = MutedClass
	} else {
		v.MuteButton = MuteLabel
		v.MuteStatus = UnmutedText
		v.StatusClass = UnmutedClass
	}
}

// setSlider moves the slider and the readout without touching the header.
func setSlider(v *View, percent int) {
	v.SliderValue = percent
	v.VolumeValue = fmt.Sprintf("%d%%", percent)
	v.FillWidth = percent
}

// Muted reports which status variant is shown.
func (v View) Muted() bool {
	return v.StatusClass == MutedClass
}
