package dlna

import (
	"strconv"
	"strings"
)

// XMLRootAttribute is an extra attribute a device wants on the DIDL-Lite
// root element.
type XMLRootAttribute struct {
	Name  string
	Value string
}

// ProfileConditionType compares a negotiated value against a condition's
// reference value.
type ProfileConditionType int

const (
	ConditionEquals ProfileConditionType = iota
	ConditionNotEquals
	ConditionLessThanEqual
	ConditionGreaterThanEqual
)

// ProfileConditionValue names the negotiated property a condition applies to.
type ProfileConditionValue int

const (
	ConditionAudioChannels ProfileConditionValue = iota
	ConditionAudioBitrate
	ConditionWidth
	ConditionHeight
	ConditionVideoBitrate
	ConditionVideoProfile
	ConditionVideoLevel
	ConditionVideoFramerate
)

// ProfileCondition narrows a media profile to streams whose negotiated
// parameters satisfy it. A parameter the negotiator left unknown satisfies
// any condition on it.
type ProfileCondition struct {
	Condition ProfileConditionType
	Property  ProfileConditionValue
	Value     string
}

func (c *ProfileCondition) satisfiedInt(actual *int) bool {
	if actual == nil {
		return true
	}
	want, err := strconv.Atoi(c.Value)
	if err != nil {
		return false
	}
	switch c.Condition {
	case ConditionEquals:
		return *actual == want
	case ConditionNotEquals:
		return *actual != want
	case ConditionLessThanEqual:
		return *actual <= want
	case ConditionGreaterThanEqual:
		return *actual >= want
	}
	return false
}

func (c *ProfileCondition) satisfiedFloat(actual *float64) bool {
	if actual == nil {
		return true
	}
	want, err := strconv.ParseFloat(c.Value, 64)
	if err != nil {
		return false
	}
	switch c.Condition {
	case ConditionEquals:
		return *actual == want
	case ConditionNotEquals:
		return *actual != want
	case ConditionLessThanEqual:
		return *actual <= want
	case ConditionGreaterThanEqual:
		return *actual >= want
	}
	return false
}

func (c *ProfileCondition) satisfiedString(actual string) bool {
	if actual == "" {
		return true
	}
	switch c.Condition {
	case ConditionEquals:
		return listContains(c.Value, actual)
	case ConditionNotEquals:
		return !listContains(c.Value, actual)
	}
	return false
}

// MediaProfile maps a negotiated container/codec combination to the MIME
// type a device declares for it. Container and codec fields are
// comma-separated lists; an empty field matches anything.
type MediaProfile struct {
	Container  string
	AudioCodec string
	VideoCodec string
	MimeType   string
	OrgPn      string
	Conditions []ProfileCondition
}

func (p *MediaProfile) matches(container, audioCodec, videoCodec string) bool {
	return listContains(p.Container, container) &&
		listContains(p.AudioCodec, audioCodec) &&
		listContains(p.VideoCodec, videoCodec)
}

func listContains(list, value string) bool {
	if list == "" {
		return true
	}
	for _, v := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(v), value) {
			return true
		}
	}
	return false
}

// DeviceProfile describes a renderer's quirks and limits. The zero value is
// a permissive profile with no art-size limits.
type DeviceProfile struct {
	Name string

	RequiresPlainFolders    bool
	RequiresPlainVideoItems bool
	EnableAlbumArtInDidl    bool

	MaxAlbumArtWidth  *int
	MaxAlbumArtHeight *int
	MaxIconWidth      *int
	MaxIconHeight     *int

	// AlbumArtPn is the DLNA profile id advertised on cover art elements.
	AlbumArtPn string

	XMLRootAttributes []XMLRootAttribute

	AudioProfiles []MediaProfile
	VideoProfiles []MediaProfile
}

// GetAudioMediaProfile returns the first declared audio profile matching the
// negotiated parameters, or nil.
func (p *DeviceProfile) GetAudioMediaProfile(container, codec string, channels, bitrate *int) *MediaProfile {
	for i := range p.AudioProfiles {
		mp := &p.AudioProfiles[i]
		if mp.matches(container, codec, "") && audioConditionsSatisfied(mp.Conditions, channels, bitrate) {
			return mp
		}
	}
	return nil
}

func audioConditionsSatisfied(cs []ProfileCondition, channels, bitrate *int) bool {
	for i := range cs {
		c := &cs[i]
		ok := true
		switch c.Property {
		case ConditionAudioChannels:
			ok = c.satisfiedInt(channels)
		case ConditionAudioBitrate:
			ok = c.satisfiedInt(bitrate)
		}
		if !ok {
			return false
		}
	}
	return true
}

// GetVideoMediaProfile returns the first declared video profile matching the
// negotiated parameters, or nil.
func (p *DeviceProfile) GetVideoMediaProfile(container, audioCodec, videoCodec string, width, height, videoBitrate *int, videoProfile string, videoLevel, framerate *float64) *MediaProfile {
	for i := range p.VideoProfiles {
		mp := &p.VideoProfiles[i]
		if mp.matches(container, audioCodec, videoCodec) &&
			videoConditionsSatisfied(mp.Conditions, width, height, videoBitrate, videoProfile, videoLevel, framerate) {
			return mp
		}
	}
	return nil
}

func videoConditionsSatisfied(cs []ProfileCondition, width, height, videoBitrate *int, videoProfile string, videoLevel, framerate *float64) bool {
	for i := range cs {
		c := &cs[i]
		ok := true
		switch c.Property {
		case ConditionWidth:
			ok = c.satisfiedInt(width)
		case ConditionHeight:
			ok = c.satisfiedInt(height)
		case ConditionVideoBitrate:
			ok = c.satisfiedInt(videoBitrate)
		case ConditionVideoProfile:
			ok = c.satisfiedString(videoProfile)
		case ConditionVideoLevel:
			ok = c.satisfiedFloat(videoLevel)
		case ConditionVideoFramerate:
			ok = c.satisfiedFloat(framerate)
		}
		if !ok {
			return false
		}
	}
	return true
}
