package domain

// Settings is the single sync-target configuration record.
// An empty SinkURL disables forwarding of completed trips.
type Settings struct {
	SinkURL string `json:"sink_url"`
}

// SyncEnabled reports whether a sink is configured.
func (s Settings) SyncEnabled() bool {
	return s.SinkURL != ""
}
