package dlna

// TranscodeSeekInfo describes how a renderer may seek within a transcoded
// stream.
type TranscodeSeekInfo int

const (
	TranscodeSeekAuto TranscodeSeekInfo = iota
	TranscodeSeekBytes
)

// AudioOptions carries the inputs of an audio stream negotiation. Audio
// negotiation has no bitrate ceiling.
type AudioOptions struct {
	ItemID       string
	MediaSources []MediaSource
	Profile      *DeviceProfile
	DeviceID     string
}

// VideoOptions carries the inputs of a video stream negotiation.
type VideoOptions struct {
	ItemID       string
	MediaSources []MediaSource
	Profile      *DeviceProfile
	DeviceID     string
	MaxBitrate   *int
}

// StreamDecision is the outcome of a stream negotiation: either direct play
// of a selected source or a transcode with the target parameters below.
// MediaSourceID always refers to one of the sources the negotiator was
// handed.
type StreamDecision struct {
	MediaSourceID string

	// PlayURL is the full playback URL, query string included.
	PlayURL string

	Container  string
	AudioCodec string
	VideoCodec string

	IsDirectStream        bool
	EstimateContentLength bool
	TranscodeSeekInfo     TranscodeSeekInfo

	RunTimeTicks *int64
	TargetSize   *int64

	TargetAudioBitrate    *int
	TargetVideoBitrate    *int
	TargetAudioSampleRate *int
	TargetAudioChannels   *int

	TargetWidth         *int
	TargetHeight        *int
	TargetVideoBitDepth *int
	TargetVideoProfile  string
	TargetVideoLevel    *float64
	TargetFramerate     *float64
	TargetPacketLength  *int
}

// TargetTotalBitrate is the sum of the audio and video target bitrates, or
// nil when neither is known.
func (d *StreamDecision) TargetTotalBitrate() *int {
	if d.TargetAudioBitrate == nil && d.TargetVideoBitrate == nil {
		return nil
	}
	var total int
	if d.TargetAudioBitrate != nil {
		total += *d.TargetAudioBitrate
	}
	if d.TargetVideoBitrate != nil {
		total += *d.TargetVideoBitrate
	}
	return &total
}
