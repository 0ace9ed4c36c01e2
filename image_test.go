package didl

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ichiban/didl/dlna"
)

func TestBuilder_imageInfo(t *testing.T) {
	modified := time.Now()

	t.Run("primary over thumb", func(t *testing.T) {
		var images mockImages
		images.On("CacheTag", mock.Anything, ImagePrimary).Return("t", nil)
		images.On("Size", "/a/primary.jpg", modified).Return(10, 10, nil)

		b := testBuilder(&dlna.DeviceProfile{}, nil, nil, &images)

		item := MediaItem{
			ID:   "i1",
			Kind: KindPhoto,
			Images: map[ImageType]ImageInfo{
				ImagePrimary: {Path: "/a/primary.jpg", DateModified: modified},
				ImageThumb:   {Path: "/a/thumb.jpg", DateModified: modified},
			},
		}

		info := b.imageInfo(&item)
		require.NotNil(t, info)
		assert.Equal(t, ImagePrimary, info.imageType)
		assert.Equal(t, "i1", info.itemID)
	})

	t.Run("thumb when no primary", func(t *testing.T) {
		var images mockImages
		images.On("CacheTag", mock.Anything, ImageThumb).Return("t", nil)
		images.On("Size", mock.Anything, mock.Anything).Return(10, 10, nil)

		b := testBuilder(&dlna.DeviceProfile{}, nil, nil, &images)

		item := MediaItem{
			ID:   "i1",
			Kind: KindMovie,
			Images: map[ImageType]ImageInfo{
				ImageThumb: {Path: "/a/thumb.jpg", DateModified: modified},
			},
		}

		info := b.imageInfo(&item)
		require.NotNil(t, info)
		assert.Equal(t, ImageThumb, info.imageType)
	})

	t.Run("audio falls back to grandparent primary", func(t *testing.T) {
		var images mockImages
		images.On("CacheTag", mock.Anything, ImagePrimary).Return("t", nil)
		images.On("Size", mock.Anything, mock.Anything).Return(10, 10, nil)

		b := testBuilder(&dlna.DeviceProfile{}, nil, nil, &images)

		grandparent := MediaItem{
			ID:   "artist",
			Kind: KindMusicArtist,
			Images: map[ImageType]ImageInfo{
				ImagePrimary: {Path: "/a/artist.jpg", DateModified: modified},
			},
		}
		parent := MediaItem{ID: "album", Kind: KindMusicAlbum, Parent: &grandparent}
		item := MediaItem{ID: "track", Kind: KindAudio, MediaType: MediaTypeAudio, Parent: &parent}

		info := b.imageInfo(&item)
		require.NotNil(t, info)
		assert.Equal(t, "artist", info.itemID)
		assert.Equal(t, ImagePrimary, info.imageType)
	})

	t.Run("no ancestor walk for movies", func(t *testing.T) {
		b := testBuilder(&dlna.DeviceProfile{}, nil, nil, nil)

		parent := MediaItem{
			ID:   "collection",
			Kind: KindFolder,
			Images: map[ImageType]ImageInfo{
				ImagePrimary: {Path: "/a/p.jpg", DateModified: modified},
			},
		}
		item := MediaItem{ID: "movie", Kind: KindMovie, MediaType: MediaTypeVideo, Parent: &parent}

		assert.Nil(t, b.imageInfo(&item))
	})

	t.Run("failing probes leave fields absent", func(t *testing.T) {
		var images mockImages
		images.On("CacheTag", mock.Anything, ImagePrimary).Return("", errors.New("cache down"))
		images.On("Size", mock.Anything, mock.Anything).Return(0, 0, errors.New("unreadable"))

		b := testBuilder(&dlna.DeviceProfile{}, nil, nil, &images)

		item := MediaItem{
			ID:   "i1",
			Kind: KindPhoto,
			Images: map[ImageType]ImageInfo{
				ImagePrimary: {Path: "/a/p.jpg", DateModified: modified},
			},
		}

		info := b.imageInfo(&item)
		require.NotNil(t, info)
		assert.Empty(t, info.tag)
		assert.Nil(t, info.width)
		assert.Nil(t, info.height)
	})
}

func TestBuilder_imageURL(t *testing.T) {
	b := testBuilder(&dlna.DeviceProfile{}, nil, nil, nil)

	t.Run("bounded", func(t *testing.T) {
		info := imageDownloadInfo{
			itemID:    "i1",
			imageType: ImagePrimary,
			tag:       "abc",
			width:     intp(2000),
			height:    intp(1500),
		}

		u := b.imageURL(&info, intp(480), nil)
		assert.Equal(t, "http://10.0.0.2:8200/Items/i1/Images/Primary?tag=abc&format=jpg&maxWidth=480", u.url)
		require.NotNil(t, u.width)
		require.NotNil(t, u.height)
		assert.Equal(t, 480, *u.width)
		assert.Equal(t, 360, *u.height)
	})

	t.Run("unbounded passes native through", func(t *testing.T) {
		info := imageDownloadInfo{
			itemID:    "i1",
			imageType: ImageThumb,
			tag:       "abc",
			width:     intp(640),
			height:    intp(480),
		}

		u := b.imageURL(&info, nil, nil)
		assert.Equal(t, "http://10.0.0.2:8200/Items/i1/Images/Thumb?tag=abc&format=jpg", u.url)
		assert.Equal(t, 640, *u.width)
		assert.Equal(t, 480, *u.height)
	})

	t.Run("unknown native dimensions stay unknown", func(t *testing.T) {
		info := imageDownloadInfo{itemID: "i1", imageType: ImagePrimary}

		u := b.imageURL(&info, intp(480), intp(480))
		assert.Contains(t, u.url, "&maxWidth=480&maxHeight=480")
		assert.Nil(t, u.width)
		assert.Nil(t, u.height)
	})
}
