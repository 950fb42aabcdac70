package volume

import (
	"fmt"

	"volpanel/internal/domain"
)

// NewController builds the controller named in the settings.
func NewController(name string) (domain.AudioController, error) {
	switch name {
	case domain.ControllerAppleScript:
		return NewAppleScriptController(), nil
	case domain.ControllerMemory:
		return NewMemoryController(domain.DefaultState()), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownController, name)
	}
}
