package didl

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/ichiban/didl/dlna"
)

// protocolInfo is always http-get; the second field (network) is unused.
const protocolInfoFormat = "http-get:*:%s:%s"

// SourceProvider supplies the deliverable encodings of an item.
type SourceProvider interface {
	GetMediaSources(item *MediaItem) ([]dlna.MediaSource, error)
}

// Negotiator decides between direct play and transcoding for a device. It
// must select its MediaSourceID from the supplied sources.
type Negotiator interface {
	BuildAudioItem(opts dlna.AudioOptions) (*dlna.StreamDecision, error)
	BuildVideoItem(opts dlna.VideoOptions) (*dlna.StreamDecision, error)
}

// FeatureEncoder builds DLNA content-feature strings from negotiated stream
// parameters.
type FeatureEncoder interface {
	AudioHeader(d *dlna.StreamDecision) string
	VideoHeader(d *dlna.StreamDecision) string
	ImageHeader(container string, width, height *int) string
}

// ErrSourceNotFound reports a negotiator that selected a media source id
// absent from the set it was handed. That's a negotiator defect, fatal for
// the item.
var ErrSourceNotFound = errors.New("didl: negotiated media source not in supplied set")

// Resource is a DIDL-Lite res element.
type Resource struct {
	XMLName         xml.Name `xml:"res"`
	Duration        string   `xml:"duration,attr,omitempty"`
	Size            *int64   `xml:"size,attr,omitempty"`
	NrAudioChannels *int     `xml:"nrAudioChannels,attr,omitempty"`
	SampleFrequency *int     `xml:"sampleFrequency,attr,omitempty"`
	Bitrate         *int     `xml:"bitrate,attr,omitempty"`
	Resolution      string   `xml:"resolution,attr,omitempty"`
	ProtocolInfo    string   `xml:"protocolInfo,attr"`
	URL             string   `xml:",chardata"`
}

// audioResource negotiates and renders the playback resource of an audio
// item. Returns (nil, nil) when the item has no media sources.
func (b *Builder) audioResource(item *MediaItem, deviceID string, filter Filter) (*Resource, error) {
	sources, err := b.Sources.GetMediaSources(item)
	if err != nil {
		return nil, fmt.Errorf("media sources for %q: %w", item.ID, err)
	}
	if len(sources) == 0 {
		return nil, nil
	}

	d, err := b.Streams.BuildAudioItem(dlna.AudioOptions{
		ItemID:       item.ID,
		MediaSources: sources,
		Profile:      b.Profile,
		DeviceID:     deviceID,
	})
	if err != nil {
		return nil, fmt.Errorf("negotiate audio stream for %q: %w", item.ID, err)
	}

	source := findSource(sources, d.MediaSourceID)
	if source == nil {
		return nil, fmt.Errorf("%w: %q", ErrSourceNotFound, d.MediaSourceID)
	}

	res := Resource{URL: d.PlayURL}

	if source.RunTimeTicks != nil {
		res.Duration = formatTicks(*source.RunTimeTicks)
	}

	if filter.Contains("res@size") && (d.IsDirectStream || d.EstimateContentLength) {
		res.Size = d.TargetSize
	}

	res.NrAudioChannels = d.TargetAudioChannels
	res.SampleFrequency = d.TargetAudioSampleRate
	res.Bitrate = d.TargetAudioBitrate

	mediaProfile := b.Profile.GetAudioMediaProfile(d.Container, d.AudioCodec, d.TargetAudioChannels, d.TargetAudioBitrate)
	mimeType := resolveMimeType(mediaProfile, d.PlayURL)

	res.ProtocolInfo = fmt.Sprintf(protocolInfoFormat, mimeType, b.Features.AudioHeader(d))

	return &res, nil
}

// videoResource negotiates and renders the playback resource of a video
// item. Returns (nil, nil) when the item has no media sources.
func (b *Builder) videoResource(item *MediaItem, deviceID string, filter Filter) (*Resource, error) {
	sources, err := b.Sources.GetMediaSources(item)
	if err != nil {
		return nil, fmt.Errorf("media sources for %q: %w", item.ID, err)
	}
	if len(sources) == 0 {
		return nil, nil
	}

	d, err := b.Streams.BuildVideoItem(dlna.VideoOptions{
		ItemID:       item.ID,
		MediaSources: sources,
		Profile:      b.Profile,
		DeviceID:     deviceID,
	})
	if err != nil {
		return nil, fmt.Errorf("negotiate video stream for %q: %w", item.ID, err)
	}

	source := findSource(sources, d.MediaSourceID)
	if source == nil {
		return nil, fmt.Errorf("%w: %q", ErrSourceNotFound, d.MediaSourceID)
	}

	res := Resource{URL: d.PlayURL}

	if source.RunTimeTicks != nil {
		res.Duration = formatTicks(*source.RunTimeTicks)
	}

	if filter.Contains("res@size") && (d.IsDirectStream || d.EstimateContentLength) {
		res.Size = d.TargetSize
	}

	res.NrAudioChannels = d.TargetAudioChannels
	if filter.Contains("res@resolution") && d.TargetWidth != nil && d.TargetHeight != nil {
		res.Resolution = fmt.Sprintf("%dx%d", *d.TargetWidth, *d.TargetHeight)
	}
	res.SampleFrequency = d.TargetAudioSampleRate
	res.Bitrate = d.TargetTotalBitrate()

	mediaProfile := b.Profile.GetVideoMediaProfile(d.Container, d.AudioCodec, d.VideoCodec,
		d.TargetWidth, d.TargetHeight, d.TargetVideoBitrate,
		d.TargetVideoProfile, d.TargetVideoLevel, d.TargetFramerate)
	mimeType := resolveMimeType(mediaProfile, d.PlayURL)

	res.ProtocolInfo = fmt.Sprintf(protocolInfoFormat, mimeType, b.Features.VideoHeader(d))

	return &res, nil
}

func findSource(sources []dlna.MediaSource, id string) *dlna.MediaSource {
	for i := range sources {
		if sources[i].ID == id {
			return &sources[i]
		}
	}
	return nil
}

// resolveMimeType prefers the MIME type the device declares for the matched
// media profile and falls back to the playback URL's file extension.
func resolveMimeType(mediaProfile *dlna.MediaProfile, playURL string) string {
	if mediaProfile != nil && mediaProfile.MimeType != "" {
		return mediaProfile.MimeType
	}
	filename := playURL
	if i := strings.Index(filename, "?"); i >= 0 {
		filename = filename[:i]
	}
	return dlna.MimeType(filename)
}

// formatTicks renders a tick count (100ns units) as an h:mm:ss timespan,
// with a day prefix and a seven-digit fraction only when non-zero.
func formatTicks(ticks int64) string {
	if ticks < 0 {
		ticks = 0
	}

	frac := ticks % dlna.TicksPerSecond
	seconds := ticks / dlna.TicksPerSecond
	days := seconds / 86400
	seconds %= 86400

	s := fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
	if days > 0 {
		s = fmt.Sprintf("%d.%s", days, s)
	}
	if frac > 0 {
		s += fmt.Sprintf(".%07d", frac)
	}
	return s
}
