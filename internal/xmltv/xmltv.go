// Package xmltv models the XMLTV document tree (<tv> with <channel> and
// <programme> children) and serializes it for standard guide readers.
package xmltv

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

// TV is the document root.
type TV struct {
	XMLName           xml.Name    `xml:"tv"`
	SourceInfoURL     string      `xml:"source-info-url,attr,omitempty"`
	SourceInfoName    string      `xml:"source-info-name,attr,omitempty"`
	GeneratorInfoName string      `xml:"generator-info-name,attr,omitempty"`
	GeneratorInfoURL  string      `xml:"generator-info-url,attr,omitempty"`
	Channels          []Channel   `xml:"channel"`
	Programmes        []Programme `xml:"programme"`
}

type Channel struct {
	ID           string   `xml:"id,attr"`
	DisplayNames []string `xml:"display-name"`
	Icon         *Icon    `xml:"icon,omitempty"`
}

type Icon struct {
	Src string `xml:"src,attr"`
}

type Programme struct {
	Start      string     `xml:"start,attr"`
	Stop       string     `xml:"stop,attr"`
	Channel    string     `xml:"channel,attr"`
	Title      Title      `xml:"title"`
	SubTitle   *Title     `xml:"sub-title,omitempty"`
	Desc       *Title     `xml:"desc,omitempty"`
	Categories []Category `xml:"category,omitempty"`
	Video      *Video     `xml:"video,omitempty"`
	Audio      *Audio     `xml:"audio,omitempty"`
	New        *struct{}  `xml:"new,omitempty"`
}

// Title is any lang-attributed text element (title, sub-title, desc).
type Title struct {
	Lang string `xml:"lang,attr,omitempty"`
	Text string `xml:",chardata"`
}

type Category struct {
	Lang string `xml:"lang,attr,omitempty"`
	Text string `xml:",chardata"`
}

type Video struct {
	Quality string `xml:"quality,omitempty"`
}

type Audio struct {
	Stereo string `xml:"stereo,omitempty"`
}

// timestampLayout is the XMLTV date format: YYYYMMDDHHMMSS plus a
// numeric zone offset.
const timestampLayout = "20060102150405 -0700"

// FormatUTC renders t normalized to UTC with a literal +0000 offset.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// FormatLocal renders t in loc with that zone's numeric offset.
func FormatLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timestampLayout)
}

// Encode writes the XML declaration (with the given encoding label), the
// xmltv DOCTYPE and the indented document. The document is written in a
// single pass; callers buffer it if they need atomicity.
func Encode(w io.Writer, tv *TV, encoding string) error {
	if _, err := fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"%s\"?>\n", encoding); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<!DOCTYPE tv SYSTEM \"xmltv.dtd\">\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(tv); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
