package app

import (
	"regexp"
	"strconv"

	"guidefeed/internal/domain"
)

var idUnsafe = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// BuildChannelIDMap maps every station id in the lineup to a generated
// XMLTV channel id: the profile prefix plus the sanitized station id.
// Every lineup entry gets exactly one id and two distinct station ids
// never share one; sanitization collisions get a numeric suffix.
func BuildChannelIDMap(channels []domain.LineupChannel, prefix string) map[string]string {
	ids := make(map[string]string, len(channels))
	taken := make(map[string]bool, len(channels))

	for _, ch := range channels {
		if _, done := ids[ch.StationID]; done {
			continue
		}
		base := prefix + idUnsafe.ReplaceAllString(ch.StationID, "-")
		id := base
		for n := 2; taken[id]; n++ {
			id = base + "-" + strconv.Itoa(n)
		}
		ids[ch.StationID] = id
		taken[id] = true
	}
	return ids
}
