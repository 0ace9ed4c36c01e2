package dlna

import (
	"fmt"
	"strings"
)

// ContentFeatures is the parameter set behind a DLNA.ORG content-feature
// string as carried in the fourth field of protocolInfo.
type ContentFeatures struct {
	ProfileName     string
	SupportTimeSeek bool
	SupportRange    bool
	Transcoded      bool
}

func binaryInt(b bool) uint {
	if b {
		return 1
	}
	return 0
}

// String renders the feature set. The profile name is omitted when unknown;
// OP and CI are always present.
func (cf ContentFeatures) String() string {
	params := make([]string, 0, 2)
	if cf.ProfileName != "" {
		params = append(params, "DLNA.ORG_PN="+cf.ProfileName)
	}
	params = append(params, fmt.Sprintf(
		"DLNA.ORG_OP=%b%b;DLNA.ORG_CI=%b",
		binaryInt(cf.SupportTimeSeek),
		binaryInt(cf.SupportRange),
		binaryInt(cf.Transcoded)))
	return strings.Join(params, ";")
}

// FeatureEncoder builds content-feature strings for negotiated streams,
// preferring the DLNA profile name the device declares for the combination
// and falling back to a generic one.
type FeatureEncoder struct {
	Profile *DeviceProfile
}

// AudioHeader encodes the content features of a negotiated audio stream.
func (e *FeatureEncoder) AudioHeader(d *StreamDecision) string {
	pn := ""
	if p := e.Profile.GetAudioMediaProfile(d.Container, d.AudioCodec, d.TargetAudioChannels, d.TargetAudioBitrate); p != nil {
		pn = p.OrgPn
	}
	if pn == "" {
		pn = audioOrgPn(d.Container)
	}
	return e.features(pn, d).String()
}

// VideoHeader encodes the content features of a negotiated video stream.
func (e *FeatureEncoder) VideoHeader(d *StreamDecision) string {
	pn := ""
	if p := e.Profile.GetVideoMediaProfile(d.Container, d.AudioCodec, d.VideoCodec, d.TargetWidth, d.TargetHeight, d.TargetVideoBitrate, d.TargetVideoProfile, d.TargetVideoLevel, d.TargetFramerate); p != nil {
		pn = p.OrgPn
	}
	return e.features(pn, d).String()
}

// ImageHeader encodes the content features of an image resource.
func (e *FeatureEncoder) ImageHeader(container string, width, height *int) string {
	return ContentFeatures{
		ProfileName:  imageOrgPn(container, width, height),
		SupportRange: true,
	}.String()
}

func (e *FeatureEncoder) features(pn string, d *StreamDecision) ContentFeatures {
	return ContentFeatures{
		ProfileName:     pn,
		SupportTimeSeek: !d.IsDirectStream && d.TranscodeSeekInfo == TranscodeSeekAuto,
		SupportRange:    d.IsDirectStream,
		Transcoded:      !d.IsDirectStream,
	}
}

func audioOrgPn(container string) string {
	switch strings.ToLower(container) {
	case "mp3":
		return "MP3"
	case "lpcm", "pcm":
		return "LPCM"
	case "wma":
		return "WMABASE"
	case "aac", "m4a", "mp4":
		return "AAC_ISO"
	default:
		return ""
	}
}

func imageOrgPn(container string, width, height *int) string {
	switch strings.ToLower(container) {
	case "jpg", "jpeg":
		if width == nil || height == nil {
			return "JPEG_LRG"
		}
		switch {
		case *width <= 640 && *height <= 480:
			return "JPEG_SM"
		case *width <= 1024 && *height <= 768:
			return "JPEG_MED"
		default:
			return "JPEG_LRG"
		}
	case "png":
		return "PNG_LRG"
	case "gif":
		return "GIF_LRG"
	default:
		return ""
	}
}
