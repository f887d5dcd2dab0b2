package model

// Settings is the opaque key/value preferences blob.
type Settings map[string]any

// Merge returns a new Settings with overlay applied on top of s, field by
// field. Neither input is modified.
func (s Settings) Merge(overlay Settings) Settings {
	merged := make(Settings, len(s)+len(overlay))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}
