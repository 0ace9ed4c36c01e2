package dlna

// TicksPerSecond is the resolution of MediaSource.RunTimeTicks and
// StreamDecision.RunTimeTicks.
const TicksPerSecond = 10_000_000

// MediaSource is one deliverable encoding of an item. An item maps to an
// ordered sequence of sources; the sequence may be empty for items with no
// playable resource.
type MediaSource struct {
	ID           string
	Path         string
	Container    string
	AudioCodec   string
	VideoCodec   string
	RunTimeTicks *int64
	Bitrate      *int
	Width        *int
	Height       *int
	Size         *int64
}
