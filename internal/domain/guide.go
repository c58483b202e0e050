package domain

import "time"

// LineupChannel is one channel record from the listings provider.
// Identity is StationID; ChannelNumber is the human-facing dial position.
type LineupChannel struct {
	StationID     string `json:"stationId"`
	ChannelNumber string `json:"channelNumber"`
	CallSign      string `json:"stationCallSign"`
	Logo          string `json:"logo,omitempty"`
}

// ProgramEntry is one raw program record from the provider grid.
// StartTime is ISO-8601 in UTC, RunTime is in minutes. Everything
// except Title, StartTime and RunTime is optional.
type ProgramEntry struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description,omitempty"`
	StartTime   string   `json:"startTime"`
	RunTime     int      `json:"runTime"`
	Type        string   `json:"type,omitempty"`
	Flags       []string `json:"flags,omitempty"`
}

// FlagSet is an exact-membership set of provider flag tokens ("HD", "New", ...).
type FlagSet map[string]struct{}

func (s FlagSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// FlagSet normalizes the entry's flag list into a set. A nil or empty
// flag list yields an empty set, never an error.
func (p ProgramEntry) FlagSet() FlagSet {
	set := make(FlagSet, len(p.Flags))
	for _, f := range p.Flags {
		set[f] = struct{}{}
	}
	return set
}

// DayWindow is the UTC query window for one guide day.
type DayWindow struct {
	DayOffset int
	StartUTC  time.Time
	EndUTC    time.Time
}
