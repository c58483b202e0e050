package buildinfo

// These are injected at build time via -ldflags, e.g.
//
//	-X guidefeed/internal/buildinfo.Version=v0.1.0
//	-X guidefeed/internal/buildinfo.Commit=abcdef
//	-X guidefeed/internal/buildinfo.Date=2026-08-31
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}

func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}
