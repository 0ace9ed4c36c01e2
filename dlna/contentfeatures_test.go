package dlna

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(i int) *int { return &i }

func floatp(f float64) *float64 { return &f }

func TestContentFeatures_String(t *testing.T) {
	tests := []struct {
		name string
		cf   ContentFeatures
		want string
	}{
		{
			name: "profile with range",
			cf:   ContentFeatures{ProfileName: "MP3", SupportRange: true},
			want: "DLNA.ORG_PN=MP3;DLNA.ORG_OP=01;DLNA.ORG_CI=0",
		},
		{
			name: "no profile transcoded",
			cf:   ContentFeatures{SupportTimeSeek: true, Transcoded: true},
			want: "DLNA.ORG_OP=10;DLNA.ORG_CI=1",
		},
		{
			name: "nothing supported",
			cf:   ContentFeatures{},
			want: "DLNA.ORG_OP=00;DLNA.ORG_CI=0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cf.String())
		})
	}
}

func TestFeatureEncoder_AudioHeader(t *testing.T) {
	t.Run("device declared profile name", func(t *testing.T) {
		e := FeatureEncoder{Profile: &DeviceProfile{
			AudioProfiles: []MediaProfile{{Container: "flac", OrgPn: "FLAC"}},
		}}
		d := StreamDecision{Container: "flac", IsDirectStream: true}
		assert.Equal(t, "DLNA.ORG_PN=FLAC;DLNA.ORG_OP=01;DLNA.ORG_CI=0", e.AudioHeader(&d))
	})

	t.Run("generic fallback", func(t *testing.T) {
		e := FeatureEncoder{Profile: &DeviceProfile{}}
		d := StreamDecision{Container: "mp3", IsDirectStream: true}
		assert.Equal(t, "DLNA.ORG_PN=MP3;DLNA.ORG_OP=01;DLNA.ORG_CI=0", e.AudioHeader(&d))
	})

	t.Run("transcode seeks by time", func(t *testing.T) {
		e := FeatureEncoder{Profile: &DeviceProfile{}}
		d := StreamDecision{Container: "mp3", TranscodeSeekInfo: TranscodeSeekAuto}
		assert.Equal(t, "DLNA.ORG_PN=MP3;DLNA.ORG_OP=10;DLNA.ORG_CI=1", e.AudioHeader(&d))
	})

	t.Run("transcode without seeking", func(t *testing.T) {
		e := FeatureEncoder{Profile: &DeviceProfile{}}
		d := StreamDecision{Container: "wav", TranscodeSeekInfo: TranscodeSeekBytes}
		assert.Equal(t, "DLNA.ORG_OP=00;DLNA.ORG_CI=1", e.AudioHeader(&d))
	})
}

func TestFeatureEncoder_ImageHeader(t *testing.T) {
	e := FeatureEncoder{Profile: &DeviceProfile{}}

	tests := []struct {
		name          string
		container     string
		width, height *int
		want          string
	}{
		{"small jpeg", "jpg", intp(640), intp(480), "DLNA.ORG_PN=JPEG_SM;DLNA.ORG_OP=01;DLNA.ORG_CI=0"},
		{"medium jpeg", "jpg", intp(1024), intp(768), "DLNA.ORG_PN=JPEG_MED;DLNA.ORG_OP=01;DLNA.ORG_CI=0"},
		{"large jpeg", "jpg", intp(1920), intp(1080), "DLNA.ORG_PN=JPEG_LRG;DLNA.ORG_OP=01;DLNA.ORG_CI=0"},
		{"unknown size jpeg", "jpg", nil, nil, "DLNA.ORG_PN=JPEG_LRG;DLNA.ORG_OP=01;DLNA.ORG_CI=0"},
		{"png", "png", intp(100), intp(100), "DLNA.ORG_PN=PNG_LRG;DLNA.ORG_OP=01;DLNA.ORG_CI=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ImageHeader(tt.container, tt.width, tt.height))
		})
	}
}

func TestStreamDecision_TargetTotalBitrate(t *testing.T) {
	var d StreamDecision
	assert.Nil(t, d.TargetTotalBitrate())

	d.TargetAudioBitrate = intp(128000)
	assert.Equal(t, 128000, *d.TargetTotalBitrate())

	d.TargetVideoBitrate = intp(3000000)
	assert.Equal(t, 3128000, *d.TargetTotalBitrate())
}
