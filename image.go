package didl

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ichiban/didl/dlna"
)

// ImageProcessor is the image subsystem the builder probes for cache tags
// and pixel dimensions. Both probes may fail; the builder treats a failure
// as "value unknown", never as an error.
type ImageProcessor interface {
	CacheTag(item *MediaItem, imageType ImageType) (string, error)
	Size(path string, modified time.Time) (width, height int, err error)
}

// imageDownloadInfo identifies the image chosen for an item's cover art.
// Tag, width and height stay empty when the corresponding probe failed.
type imageDownloadInfo struct {
	itemID    string
	imageType ImageType
	tag       string
	width     *int
	height    *int
}

type imageURLInfo struct {
	url    string
	width  *int
	height *int
}

// imageInfo resolves the best available cover image for an item: its own
// Primary, then its own Thumb, then, for audio and episodes, the nearest
// ancestor with a Primary. Returns nil when nothing qualifies.
func (b *Builder) imageInfo(item *MediaItem) *imageDownloadInfo {
	if item.HasImage(ImagePrimary) {
		return b.imageInfoFor(item, ImagePrimary)
	}
	if item.HasImage(ImageThumb) {
		return b.imageInfoFor(item, ImageThumb)
	}

	if item.Kind == KindAudio || item.Kind == KindEpisode {
		for _, p := range item.Ancestors() {
			if p.HasImage(ImagePrimary) {
				return b.imageInfoFor(p, ImagePrimary)
			}
		}
	}

	return nil
}

func (b *Builder) imageInfoFor(item *MediaItem, t ImageType) *imageDownloadInfo {
	info := imageDownloadInfo{
		itemID:    item.ID,
		imageType: t,
	}

	if tag, err := b.Images.CacheTag(item, t); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"item": item.ID,
			"type": t,
		}).Debug("image cache tag lookup failed")
	} else {
		info.tag = tag
	}

	if ii, ok := item.ImageInfo(t); ok {
		if w, h, err := b.Images.Size(ii.Path, ii.DateModified); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"item": item.ID,
				"path": ii.Path,
			}).Debug("image size lookup failed")
		} else {
			info.width = &w
			info.height = &h
		}
	}

	return &info
}

// imageURL computes the fetch URL for an image, bounded by the given maximum
// dimensions, and the dimensions to advertise alongside it.
func (b *Builder) imageURL(info *imageDownloadInfo, maxWidth, maxHeight *int) imageURLInfo {
	url := fmt.Sprintf("%s/Items/%s/Images/%s?tag=%s&format=jpg",
		b.ServerAddress, info.itemID, info.imageType, info.tag)

	if maxWidth != nil {
		url += fmt.Sprintf("&maxWidth=%d", *maxWidth)
	}
	if maxHeight != nil {
		url += fmt.Sprintf("&maxHeight=%d", *maxHeight)
	}

	width, height := info.width, info.height
	if width != nil && height != nil && (maxWidth != nil || maxHeight != nil) {
		w, h := dlna.FitWithin(*width, *height, maxWidth, maxHeight)
		width, height = &w, &h
	}

	return imageURLInfo{
		url:    url,
		width:  width,
		height: height,
	}
}
