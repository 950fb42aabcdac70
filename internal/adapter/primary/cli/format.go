package cli

import (
	"fmt"
	"strings"

	"volpanel/internal/core"
	"volpanel/internal/domain"
)

const plainSliderCells = 20

// formatPanel renders a view as plain text for one-shot commands.
func formatPanel(v core.View) string {
	filled := domain.ClampVolume(v.FillWidth) * plainSliderCells / 100
	mark := "#"
	if v.FillMuted {
		mark = "-"
	}
	var b strings.Builder
	fmt.Fprintln(&b, v.VolumeText)
	fmt.Fprintf(&b, "[%s%s] %s\n", strings.Repeat(mark, filled), strings.Repeat(" ", plainSliderCells-filled), v.VolumeValue)
	fmt.Fprintf(&b, "[ %s ]  %s\n", v.MuteButton, v.MuteStatus)
	return b.String()
}
