package domain

// ClampVolume forces a percentage into 0-100.
func ClampVolume(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// StepVolume moves a percentage by delta and clamps the result.
func StepVolume(percent, delta int) int {
	return ClampVolume(percent + delta)
}

// NormalizeSettings replaces unusable values with defaults.
// Unlike Validate it never fails; it is used when loading from disk.
func NormalizeSettings(s Settings) Settings {
	def := DefaultSettings()
	if s.BackendURL == "" {
		s.BackendURL = def.BackendURL
	}
	if s.Dialect == "" {
		s.Dialect = def.Dialect
	}
	if s.Addr == "" {
		s.Addr = def.Addr
	}
	if s.Controller == "" {
		s.Controller = def.Controller
	}
	if s.ObserveInterval <= 0 {
		s.ObserveInterval = def.ObserveInterval
	}
	if s.Timeout <= 0 {
		s.Timeout = def.Timeout
	}
	return s
}
