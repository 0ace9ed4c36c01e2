package didl

import (
	"errors"
	"fmt"

	"github.com/ichiban/didl/dlna"
)

const (
	classStorageFolder = "object.container.storageFolder"
	classMusicAlbum    = "object.container.album.musicAlbum"
	classMusicArtist   = "object.container.person.musicArtist"
	classMusicTrack    = "object.item.audioItem.musicTrack"
	classPhoto         = "object.item.imageItem.photo"
	classVideoItem     = "object.item.videoItem"
	classMovie         = "object.item.videoItem.movie"
)

// ErrUnsupportedItemKind reports an item whose kind and media type don't map
// to any upnp:class. Fatal for that item, not for the batch.
var ErrUnsupportedItemKind = errors.New("didl: unsupported item kind")

// objectClass maps an item to its upnp:class, honoring the device's
// plain-folder and plain-video quirks.
func objectClass(item *MediaItem, profile *dlna.DeviceProfile) (string, error) {
	if item.Kind.IsFolder() {
		if !profile.RequiresPlainFolders {
			switch item.Kind {
			case KindMusicAlbum:
				return classMusicAlbum, nil
			case KindMusicArtist:
				return classMusicArtist, nil
			}
		}
		return classStorageFolder, nil
	}

	switch item.MediaType {
	case MediaTypeAudio:
		return classMusicTrack, nil
	case MediaTypePhoto:
		return classPhoto, nil
	case MediaTypeVideo:
		if !profile.RequiresPlainVideoItems && item.Kind == KindMovie {
			return classMovie, nil
		}
		return classVideoItem, nil
	}

	return "", fmt.Errorf("%w: item %q kind %s media type %q", ErrUnsupportedItemKind, item.ID, item.Kind, item.MediaType)
}
