package app

import (
	"fmt"
	"net/url"
	"time"

	"guidefeed/internal/config"
	"guidefeed/internal/domain"
	"guidefeed/internal/ports"
	"guidefeed/internal/xmltv"
)

const elementLang = "en"

// Assembler turns lineup channels and raw program entries into XMLTV
// elements according to the deployment profile.
type Assembler struct {
	profile       config.Profile
	loc           *time.Location
	titleFallback string
	logoBase      *url.URL
}

func NewAssembler(profile config.Profile, loc *time.Location, titleFallback, providerBaseURL string) *Assembler {
	base, err := url.Parse(providerBaseURL)
	if err != nil {
		base = nil
	}
	return &Assembler{
		profile:       profile,
		loc:           loc,
		titleFallback: titleFallback,
		logoBase:      base,
	}
}

// ChannelElement builds the <channel> element for one lineup entry.
// Display names follow the profile's ordering convention.
func (a *Assembler) ChannelElement(ch domain.LineupChannel, id string) xmltv.Channel {
	var names []string
	switch a.profile.DisplayNameOrder {
	case config.DisplayCallSignNumber:
		names = []string{ch.CallSign, ch.ChannelNumber}
	default:
		names = []string{ch.CallSign, "Channel " + ch.ChannelNumber, ch.ChannelNumber}
	}

	out := xmltv.Channel{ID: id, DisplayNames: names}
	if ch.Logo != "" {
		out.Icon = &xmltv.Icon{Src: a.resolveLogo(ch.Logo)}
	}
	return out
}

// ProgrammeElement builds one <programme> element. The channel attribute
// must be the exact id emitted for the channel's <channel> element.
func (a *Assembler) ProgrammeElement(entry domain.ProgramEntry, channelID string) (xmltv.Programme, error) {
	start, err := time.Parse(time.RFC3339, entry.StartTime)
	if err != nil {
		return xmltv.Programme{}, fmt.Errorf("%w: program startTime %q: %v", ports.ErrMalformedResponse, entry.StartTime, err)
	}
	stop := start.Add(time.Duration(entry.RunTime) * time.Minute)

	title := entry.Title
	if title == "" {
		title = a.titleFallback
	}

	p := xmltv.Programme{
		Start:   a.formatTimestamp(start),
		Stop:    a.formatTimestamp(stop),
		Channel: channelID,
		Title:   xmltv.Title{Lang: elementLang, Text: title},
	}
	if entry.Subtitle != "" {
		p.SubTitle = &xmltv.Title{Lang: elementLang, Text: entry.Subtitle}
	}
	if entry.Description != "" {
		p.Desc = &xmltv.Title{Lang: elementLang, Text: entry.Description}
	}

	if cat, ok := typeCategory(entry.Type); ok {
		p.Categories = append(p.Categories, xmltv.Category{Text: cat})
	}

	flags := entry.FlagSet()
	if flags.Has("EI") {
		p.Categories = append(p.Categories, xmltv.Category{Lang: elementLang, Text: "kids"})
	}
	if flags.Has("HD") {
		p.Video = &xmltv.Video{Quality: "HDTV"}
	}
	if flags.Has("Stereo") {
		p.Audio = &xmltv.Audio{Stereo: "stereo"}
	}
	if flags.Has("New") {
		p.New = &struct{}{}
	}

	return p, nil
}

// typeCategory maps the provider's one-letter program type to a category
// name. Unknown or absent types contribute nothing.
func typeCategory(t string) (string, bool) {
	switch t {
	case "M":
		return "movie", true
	case "N":
		return "news", true
	case "S":
		return "sports", true
	}
	return "", false
}

func (a *Assembler) formatTimestamp(t time.Time) string {
	if a.profile.OffsetConvention == config.OffsetLocal {
		return xmltv.FormatLocal(t, a.loc)
	}
	return xmltv.FormatUTC(t)
}

// resolveLogo resolves a possibly relative logo path against the
// provider base URL. Unparseable paths are passed through untouched.
func (a *Assembler) resolveLogo(logo string) string {
	ref, err := url.Parse(logo)
	if err != nil {
		return logo
	}
	if ref.IsAbs() || a.logoBase == nil {
		return logo
	}
	return a.logoBase.ResolveReference(ref).String()
}
