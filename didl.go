// Package didl renders DIDL-Lite XML fragments describing media items for
// UPnP renderers and control points, tailored to a device profile and a
// client-requested field filter.
package didl

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/ichiban/didl/dlna"
)

const (
	nsDIDL = "urn:schemas-upnp-org:metadata-1-0/DIDL-Lite/"
	nsDC   = "http://purl.org/dc/elements/1.1/"
	nsUPnP = "urn:schemas-upnp-org:metadata-1-0/upnp/"
	nsDLNA = "urn:schemas-dlna-org:metadata-1-0/"
)

// Element is a namespace-prefixed text element such as dc:title or
// upnp:albumArtURI.
type Element struct {
	XMLName   xml.Name
	ProfileID string `xml:"dlna:profileID,attr,omitempty"`
	Value     string `xml:",chardata"`
}

// Item is a DIDL-Lite item element.
type Item struct {
	XMLName    xml.Name `xml:"item"`
	ID         string   `xml:"id,attr"`
	ParentID   string   `xml:"parentID,attr,omitempty"`
	Restricted string   `xml:"restricted,attr"`
	Children   []any
}

// Container is a DIDL-Lite container element.
type Container struct {
	XMLName    xml.Name `xml:"container"`
	ID         string   `xml:"id,attr"`
	ParentID   string   `xml:"parentID,attr"`
	Restricted string   `xml:"restricted,attr"`
	Searchable string   `xml:"searchable,attr"`
	ChildCount int      `xml:"childCount,attr"`
	Children   []any
}

type document struct {
	XMLName   xml.Name   `xml:"DIDL-Lite"`
	XMLNS     string     `xml:"xmlns,attr"`
	XMLNSDC   string     `xml:"xmlns:dc,attr"`
	XMLNSDLNA string     `xml:"xmlns:dlna,attr"`
	XMLNSUPnP string     `xml:"xmlns:upnp,attr"`
	Attrs     []xml.Attr `xml:",any,attr"`
	Nodes     []any
}

// Builder renders DIDL-Lite metadata. It holds no mutable state and is safe
// for concurrent use across items and devices.
type Builder struct {
	Profile       *dlna.DeviceProfile
	ServerAddress string
	Sources       SourceProvider
	Streams       Negotiator
	Features      FeatureEncoder
	Images        ImageProcessor
}

// GetItemDidl renders one item or container wrapped in a DIDL-Lite root with
// the required namespaces and the device's extra root attributes, and
// returns the root element serialized to text.
func (b *Builder) GetItemDidl(item *MediaItem, deviceID string, filter Filter) (string, error) {
	var node any
	var err error
	if item.Kind.IsFolder() {
		// Child counts belong to browse responses; a single-item
		// metadata document advertises none.
		node, err = b.GetFolderElement(item, 0, filter)
	} else {
		node, err = b.GetItemElement(item, deviceID, filter)
	}
	if err != nil {
		return "", err
	}

	doc := document{
		XMLNS:     nsDIDL,
		XMLNSDC:   nsDC,
		XMLNSDLNA: nsDLNA,
		XMLNSUPnP: nsUPnP,
		Nodes:     []any{node},
	}
	for _, a := range b.Profile.XMLRootAttributes {
		doc.Attrs = append(doc.Attrs, xml.Attr{
			Name:  xml.Name{Local: a.Name},
			Value: a.Value,
		})
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal didl: %w", err)
	}
	return string(out), nil
}

// GetItemElement builds the item element for a non-folder item: identity
// attributes, descriptive fields, the playback resource for audio and video
// kinds, and the cover art block.
func (b *Builder) GetItemElement(item *MediaItem, deviceID string, filter Filter) (*Item, error) {
	el := Item{
		ID:         item.ID,
		Restricted: "1",
	}
	if item.Parent != nil {
		el.ParentID = item.Parent.ID
	}

	if err := b.addGeneralProperties(item, &el.Children, filter); err != nil {
		return nil, err
	}

	switch item.Kind {
	case KindAudio:
		res, err := b.audioResource(item, deviceID, filter)
		if err != nil {
			return nil, err
		}
		if res != nil {
			el.Children = append(el.Children, res)
		}
	case KindVideo, KindMusicVideo, KindMovie, KindEpisode:
		res, err := b.videoResource(item, deviceID, filter)
		if err != nil {
			return nil, err
		}
		if res != nil {
			el.Children = append(el.Children, res)
		}
	}

	b.addCover(item, &el.Children)

	return &el, nil
}

// GetFolderElement builds the container element for a folder item.
func (b *Builder) GetFolderElement(folder *MediaItem, childCount int, filter Filter) (*Container, error) {
	el := Container{
		ID:         folder.ID,
		ParentID:   "0",
		Restricted: "0",
		Searchable: "1",
		ChildCount: childCount,
	}
	if folder.Parent != nil {
		el.ParentID = folder.Parent.ID
	}

	if err := b.addCommonFields(folder, &el.Children, filter); err != nil {
		return nil, err
	}

	b.addCover(folder, &el.Children)

	return &el, nil
}

// addCommonFields adds the fields shared by items and folders.
func (b *Builder) addCommonFields(item *MediaItem, nodes *[]any, filter Filter) error {
	if filter.Contains("dc:title") {
		b.addValue(nodes, "dc:title", item.Name)
	}

	class, err := objectClass(item, b.Profile)
	if err != nil {
		return err
	}
	*nodes = append(*nodes, Element{XMLName: xml.Name{Local: "upnp:class"}, Value: class})

	if filter.Contains("dc:date") && item.PremiereDate != nil {
		b.addValue(nodes, "dc:date", item.PremiereDate.UTC().Format(time.RFC3339))
	}

	for _, genre := range item.Genres {
		b.addValue(nodes, "upnp:genre", genre)
	}

	for _, studio := range item.Studios {
		b.addValue(nodes, "upnp:publisher", studio)
	}

	if strings.TrimSpace(item.Overview) != "" {
		if filter.Contains("dc:description") {
			b.addValue(nodes, "dc:description", item.Overview)
		}
		if filter.Contains("upnp:longDescription") {
			b.addValue(nodes, "upnp:longDescription", item.Overview)
		}
	}

	if item.OfficialRating != "" {
		if filter.Contains("dc:rating") {
			b.addValue(nodes, "dc:rating", item.OfficialRating)
		}
		if filter.Contains("upnp:rating") {
			b.addValue(nodes, "upnp:rating", item.OfficialRating)
		}
	}

	b.addPeople(item, nodes)

	return nil
}

// addGeneralProperties adds the common fields plus the item-only extras.
func (b *Builder) addGeneralProperties(item *MediaItem, nodes *[]any, filter Filter) error {
	if err := b.addCommonFields(item, nodes, filter); err != nil {
		return err
	}

	switch item.Kind {
	case KindAudio:
		for _, artist := range item.Artists {
			b.addValue(nodes, "upnp:artist", artist)
		}
		if item.Album != "" {
			b.addValue(nodes, "upnp:album", item.Album)
		}
		if item.AlbumArtist != "" {
			b.addValue(nodes, "upnp:albumArtist", item.AlbumArtist)
		}
	case KindMusicAlbum:
		if item.AlbumArtist != "" {
			b.addValue(nodes, "upnp:artist", item.AlbumArtist)
			b.addValue(nodes, "upnp:albumArtist", item.AlbumArtist)
		}
	case KindMusicVideo:
		for _, artist := range item.Artists {
			b.addValue(nodes, "upnp:artist", artist)
		}
		if item.Album != "" {
			b.addValue(nodes, "upnp:album", item.Album)
		}
	}

	if item.IndexNumber != nil {
		b.addValue(nodes, "upnp:originalTrackNumber", fmt.Sprintf("%d", *item.IndexNumber))
	}

	return nil
}

func (b *Builder) addPeople(item *MediaItem, nodes *[]any) {
	for _, p := range item.People {
		role := p.Role
		if role == "" {
			role = "Actor"
		}
		b.addValue(nodes, "upnp:"+strings.ToLower(role), p.Name)
	}
}

// addValue appends a namespace-prefixed text element. A value that cannot be
// represented in XML drops just that field; everything else still renders.
func (b *Builder) addValue(nodes *[]any, name, value string) {
	if err := checkName(name); err != nil {
		log.WithError(err).WithField("name", name).Warn("dropping field with invalid element name")
		return
	}
	if err := checkText(value); err != nil {
		log.WithError(err).WithField("name", name).Warn("dropping field with invalid text")
		return
	}
	*nodes = append(*nodes, Element{XMLName: xml.Name{Local: name}, Value: value})
}

// addCover adds the cover art block: albumArtURI and icon always, plus an
// inline art resource unless the device disables it. No image, no block.
func (b *Builder) addCover(item *MediaItem, nodes *[]any) {
	info := b.imageInfo(item)
	if info == nil {
		return
	}

	albumArt := b.imageURL(info, b.Profile.MaxAlbumArtWidth, b.Profile.MaxAlbumArtHeight)
	*nodes = append(*nodes, Element{
		XMLName:   xml.Name{Local: "upnp:albumArtURI"},
		ProfileID: b.Profile.AlbumArtPn,
		Value:     albumArt.url,
	})

	icon := b.imageURL(info, b.Profile.MaxIconWidth, b.Profile.MaxIconHeight)
	*nodes = append(*nodes, Element{
		XMLName:   xml.Name{Local: "upnp:icon"},
		ProfileID: b.Profile.AlbumArtPn,
		Value:     icon.url,
	})

	if !b.Profile.EnableAlbumArtInDidl {
		return
	}

	res := Resource{
		ProtocolInfo: fmt.Sprintf(protocolInfoFormat, "image/jpeg", b.Features.ImageHeader("jpg", albumArt.width, albumArt.height)),
		URL:          albumArt.url,
	}
	if albumArt.width != nil && albumArt.height != nil {
		res.Resolution = fmt.Sprintf("%dx%d", *albumArt.width, *albumArt.height)
	}
	*nodes = append(*nodes, &res)
}

// checkName validates a string against the XML 1.0 Name production. Element
// names derived from metadata (person roles) go through here so a stray
// space or punctuation mark cannot produce an unparseable document.
func checkName(s string) error {
	if s == "" {
		return fmt.Errorf("empty element name")
	}
	for i, r := range s {
		if i == 0 && !isNameStartChar(r) || i > 0 && !isNameChar(r) {
			return fmt.Errorf("character %U not allowed in an XML name", r)
		}
	}
	return nil
}

func isNameStartChar(r rune) bool {
	return r == ':' || r == '_' ||
		r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' ||
		r >= 0xC0 && r <= 0xD6 || r >= 0xD8 && r <= 0xF6 ||
		r >= 0xF8 && r <= 0x2FF || r >= 0x370 && r <= 0x37D ||
		r >= 0x37F && r <= 0x1FFF || r >= 0x200C && r <= 0x200D ||
		r >= 0x2070 && r <= 0x218F || r >= 0x2C00 && r <= 0x2FEF ||
		r >= 0x3001 && r <= 0xD7FF || r >= 0xF900 && r <= 0xFDCF ||
		r >= 0xFDF0 && r <= 0xFFFD || r >= 0x10000 && r <= 0xEFFFF
}

func isNameChar(r rune) bool {
	return isNameStartChar(r) ||
		r == '-' || r == '.' || r >= '0' && r <= '9' ||
		r == 0xB7 || r >= 0x300 && r <= 0x36F || r >= 0x203F && r <= 0x2040
}

// checkText validates a string against the XML 1.0 Char production.
func checkText(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("invalid UTF-8 sequence")
	}
	for _, r := range s {
		if !isInCharacterRange(r) {
			return fmt.Errorf("character %U not allowed in XML", r)
		}
	}
	return nil
}

func isInCharacterRange(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
