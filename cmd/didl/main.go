package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ichiban/didl"
	"github.com/ichiban/didl/dlna"
)

func main() {
	var dir string
	var server string
	var id string
	var deviceID string
	var filterSpec string
	var verbose bool

	flag.StringVar(&dir, "dir", ".", "path to the directory containing media files")
	flag.StringVar(&server, "server", "http://127.0.0.1:8200", "server address used in generated URLs")
	flag.StringVar(&id, "id", "", "item id to render; empty lists all items")
	flag.StringVar(&deviceID, "device", "cli", "device id passed to the stream negotiator")
	flag.StringVar(&filterSpec, "filter", "*", "comma-separated DIDL field filter")
	flag.BoolVar(&verbose, "verbose", false, "shows more logs")
	flag.Parse()

	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	lib, err := didl.NewLibrary(dir)
	if err != nil {
		log.WithError(err).Fatal("Failed to scan media library.")
	}

	if id == "" {
		list(lib, lib.Root(), "")
		return
	}

	item, ok := lib.Item(id)
	if !ok {
		log.WithField("id", id).Fatal("Unknown item.")
	}

	profile := dlna.DeviceProfile{
		Name:                 "generic",
		EnableAlbumArtInDidl: true,
		AlbumArtPn:           "JPEG_SM",
	}

	b := didl.Builder{
		Profile:       &profile,
		ServerAddress: server,
		Sources:       lib,
		Streams:       &directPlay{server: server},
		Features:      &dlna.FeatureEncoder{Profile: &profile},
		Images:        lib,
	}

	out, err := b.GetItemDidl(item, deviceID, didl.NewFilter(filterSpec))
	if err != nil {
		log.WithError(err).WithField("id", id).Fatal("Failed to build DIDL.")
	}
	fmt.Println(out)
}

func list(lib *didl.Library, item *didl.MediaItem, indent string) {
	fmt.Fprintf(os.Stdout, "%s%s  %s  %s\n", indent, item.ID, item.Kind, item.Name)
	for _, c := range lib.Children(item) {
		list(lib, c, indent+"  ")
	}
}

// directPlay always serves the first source as-is. A real negotiator weighs
// the device profile; this one exists so the CLI can render something.
type directPlay struct {
	server string
}

func (n *directPlay) BuildAudioItem(opts dlna.AudioOptions) (*dlna.StreamDecision, error) {
	return n.decide(opts.ItemID, opts.MediaSources)
}

func (n *directPlay) BuildVideoItem(opts dlna.VideoOptions) (*dlna.StreamDecision, error) {
	return n.decide(opts.ItemID, opts.MediaSources)
}

func (n *directPlay) decide(itemID string, sources []dlna.MediaSource) (*dlna.StreamDecision, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no media sources for %q", itemID)
	}
	s := sources[0]
	return &dlna.StreamDecision{
		MediaSourceID:  s.ID,
		PlayURL:        fmt.Sprintf("%s/Items/%s/stream.%s?static=true&mediaSourceId=%s", n.server, itemID, s.Container, s.ID),
		Container:      s.Container,
		AudioCodec:     s.AudioCodec,
		VideoCodec:     s.VideoCodec,
		IsDirectStream: true,
		RunTimeTicks:   s.RunTimeTicks,
		TargetSize:     s.Size,
		TargetWidth:    s.Width,
		TargetHeight:   s.Height,
	}, nil
}
