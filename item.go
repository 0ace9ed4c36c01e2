package didl

import (
	"time"
)

// Kind is the concrete variety of a media item. Every decision point in the
// builder switches exhaustively over it.
type Kind int

const (
	KindFolder Kind = iota
	KindAudio
	KindVideo
	KindPhoto
	KindMusicAlbum
	KindMusicArtist
	KindMusicVideo
	KindMovie
	KindEpisode
)

func (k Kind) String() string {
	return [...]string{
		KindFolder:      "Folder",
		KindAudio:       "Audio",
		KindVideo:       "Video",
		KindPhoto:       "Photo",
		KindMusicAlbum:  "MusicAlbum",
		KindMusicArtist: "MusicArtist",
		KindMusicVideo:  "MusicVideo",
		KindMovie:       "Movie",
		KindEpisode:     "Episode",
	}[k]
}

// IsFolder reports whether the kind renders as a DIDL container.
func (k Kind) IsFolder() bool {
	switch k {
	case KindFolder, KindMusicAlbum, KindMusicArtist:
		return true
	default:
		return false
	}
}

// MediaType is the declared media type tag of an item.
type MediaType string

const (
	MediaTypeAudio MediaType = "Audio"
	MediaTypeVideo MediaType = "Video"
	MediaTypePhoto MediaType = "Photo"
)

// ImageType identifies an image slot on an item.
type ImageType string

const (
	ImagePrimary ImageType = "Primary"
	ImageThumb   ImageType = "Thumb"
)

// ImageInfo is one populated image slot.
type ImageInfo struct {
	Path         string
	DateModified time.Time
}

// Person is a credited person with the role the renderer should file them
// under.
type Person struct {
	Name string
	Role string
}

// MediaItem is the read-only input of the builder. Items arrive already
// materialized; Parent is navigation only, never an ownership edge.
type MediaItem struct {
	ID        string
	Name      string
	Kind      Kind
	MediaType MediaType
	Parent    *MediaItem

	Genres         []string
	Studios        []string
	Overview       string
	OfficialRating string
	PremiereDate   *time.Time
	People         []Person
	IndexNumber    *int

	// Audio-like fields.
	Artists     []string
	Album       string
	AlbumArtist string

	Images map[ImageType]ImageInfo
}

// HasImage reports whether the given image slot is populated.
func (i *MediaItem) HasImage(t ImageType) bool {
	_, ok := i.Images[t]
	return ok
}

// ImageInfo returns the given image slot.
func (i *MediaItem) ImageInfo(t ImageType) (ImageInfo, bool) {
	info, ok := i.Images[t]
	return info, ok
}

// Ancestors returns the parent chain, nearest first.
func (i *MediaItem) Ancestors() []*MediaItem {
	var as []*MediaItem
	for p := i.Parent; p != nil; p = p.Parent {
		as = append(as, p)
	}
	return as
}
