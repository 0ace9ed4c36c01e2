package didl

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fsnotify/fsnotify"
	"github.com/gabriel-vasile/mimetype"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ichiban/didl/dlna"
)

var libraryNamespace = uuid.NewV5(uuid.NamespaceURL, "github.com/ichiban/didl")

// Sidecar image names claimed by the containing folder instead of becoming
// photo items.
var coverNames = map[string]ImageType{
	"folder.jpg": ImagePrimary,
	"cover.jpg":  ImagePrimary,
	"poster.jpg": ImagePrimary,
	"thumb.jpg":  ImageThumb,
}

// Library is an in-memory media item tree built from a directory walk. It
// supplies the builder's media sources and implements both image probes.
type Library struct {
	dir string

	mu      sync.RWMutex
	root    *MediaItem
	byID    map[string]*MediaItem
	sources map[string][]dlna.MediaSource
}

// NewLibrary scans dir and returns the resulting library.
func NewLibrary(dir string) (*Library, error) {
	l := Library{dir: dir}
	if err := l.Scan(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Scan rebuilds the item tree from the filesystem and swaps it in atomically.
func (l *Library) Scan() error {
	byPath := map[string]*MediaItem{}
	byID := map[string]*MediaItem{}
	sources := map[string][]dlna.MediaSource{}

	if err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(l.dir, path)
		if err != nil {
			return err
		}

		parent := byPath[filepath.Dir(path)]

		if d.IsDir() {
			item := MediaItem{
				ID:     itemID(rel),
				Name:   d.Name(),
				Kind:   KindFolder,
				Parent: parent,
			}
			if rel == "." {
				item.Name = filepath.Base(l.dir)
				item.Parent = nil
			}
			byPath[path] = &item
			byID[item.ID] = &item
			return nil
		}

		if t, ok := coverNames[strings.ToLower(d.Name())]; ok && parent != nil {
			fi, err := d.Info()
			if err != nil {
				return err
			}
			if parent.Images == nil {
				parent.Images = map[ImageType]ImageInfo{}
			}
			parent.Images[t] = ImageInfo{Path: path, DateModified: fi.ModTime()}
			return nil
		}

		mime, err := mimetype.DetectFile(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Debug("cannot detect file type")
			return nil
		}

		var kind Kind
		var mediaType MediaType
		switch strings.Split(mime.String(), "/")[0] {
		case "audio":
			kind, mediaType = KindAudio, MediaTypeAudio
		case "video":
			kind, mediaType = KindVideo, MediaTypeVideo
		case "image":
			kind, mediaType = KindPhoto, MediaTypePhoto
		default:
			return nil
		}

		item := MediaItem{
			ID:        itemID(rel),
			Name:      d.Name(),
			Kind:      kind,
			MediaType: mediaType,
			Parent:    parent,
		}
		byID[item.ID] = &item

		if kind == KindAudio || kind == KindVideo {
			fi, err := d.Info()
			if err != nil {
				return err
			}
			size := fi.Size()
			sources[item.ID] = []dlna.MediaSource{{
				ID:        item.ID,
				Path:      path,
				Container: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
				Size:      &size,
			}}
		}

		return nil
	}); err != nil {
		return fmt.Errorf("scan %s: %w", l.dir, err)
	}

	promoteAlbums(byID)

	l.mu.Lock()
	l.root = byPath[l.dir]
	l.byID = byID
	l.sources = sources
	l.mu.Unlock()

	log.WithFields(log.Fields{
		"dir":   l.dir,
		"items": len(byID),
	}).Info("library scanned")

	return nil
}

// promoteAlbums turns folders whose media children are all audio into music
// albums and names the tracks' album after the folder.
func promoteAlbums(byID map[string]*MediaItem) {
	audio := map[*MediaItem][]*MediaItem{}
	mixed := map[*MediaItem]bool{}
	for _, item := range byID {
		if item.Parent == nil || item.Kind.IsFolder() {
			continue
		}
		if item.Kind == KindAudio {
			audio[item.Parent] = append(audio[item.Parent], item)
		} else {
			mixed[item.Parent] = true
		}
	}
	for folder, tracks := range audio {
		if mixed[folder] || folder.Parent == nil {
			continue
		}
		folder.Kind = KindMusicAlbum
		for _, t := range tracks {
			if t.Album == "" {
				t.Album = folder.Name
			}
		}
	}
}

// Root returns the top-level folder item.
func (l *Library) Root() *MediaItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.root
}

// Item looks an item up by id.
func (l *Library) Item(id string) (*MediaItem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	item, ok := l.byID[id]
	return item, ok
}

// Children returns the direct children of a folder item, ordered by name.
func (l *Library) Children(parent *MediaItem) []*MediaItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var cs []*MediaItem
	for _, item := range l.byID {
		if item.Parent == parent {
			cs = append(cs, item)
		}
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Name != cs[j].Name {
			return cs[i].Name < cs[j].Name
		}
		return cs[i].ID < cs[j].ID
	})
	return cs
}

// GetMediaSources implements SourceProvider.
func (l *Library) GetMediaSources(item *MediaItem) ([]dlna.MediaSource, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sources[item.ID], nil
}

// CacheTag implements ImageProcessor with a deterministic tag derived from
// the image path and its modification time.
func (l *Library) CacheTag(item *MediaItem, t ImageType) (string, error) {
	info, ok := item.ImageInfo(t)
	if !ok {
		return "", fmt.Errorf("item %q has no %s image", item.ID, t)
	}
	tag := uuid.NewV5(libraryNamespace, fmt.Sprintf("%s|%d", info.Path, info.DateModified.UnixNano()))
	return strings.ReplaceAll(tag.String(), "-", ""), nil
}

// Size implements ImageProcessor by decoding the image header.
func (l *Library) Size(path string, _ time.Time) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Watch rescans the library whenever the media tree changes, until the
// context is canceled. Bursts of events collapse into one rescan.
func (l *Library) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	}); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.WithFields(log.Fields{
				"op":   ev.Op.String(),
				"path": ev.Name,
			}).Debug("library change")
			if ev.Op.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						log.WithError(err).WithField("path", ev.Name).Warn("cannot watch new directory")
					}
				}
			}
			pending = time.After(500 * time.Millisecond)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("library watch error")
		case <-pending:
			pending = nil
			if err := l.Scan(); err != nil {
				log.WithError(err).Error("library rescan failed")
			}
		}
	}
}

func itemID(rel string) string {
	return strings.ReplaceAll(uuid.NewV5(libraryNamespace, filepath.ToSlash(rel)).String(), "-", "")
}
