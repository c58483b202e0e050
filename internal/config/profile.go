package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Two lineup conventions exist in the wild; rather than two code paths,
// the differences are captured here and selected at startup.
const (
	// ProfileStandard emits call sign, "Channel N" and the bare number as
	// display names, declares UTF-8, and normalizes timestamps to +0000.
	ProfileStandard = "standard"
	// ProfileLegacy emits call sign and bare number only, declares
	// ISO-8859-1, and formats timestamps with the local zone offset.
	ProfileLegacy = "legacy"
)

// Display-name orderings for <channel> elements.
const (
	DisplayCallSignChannelNumber = "callsign-channel-number"
	DisplayCallSignNumber        = "callsign-number"
)

// Offset conventions for programme start/stop attributes.
const (
	OffsetUTC   = "utc"
	OffsetLocal = "local"
)

// Profile groups the per-deployment output conventions.
type Profile struct {
	Name             string `yaml:"name"`
	IDPrefix         string `yaml:"idPrefix"`
	DisplayNameOrder string `yaml:"displayNameOrder"`
	Encoding         string `yaml:"encoding"`
	OffsetConvention string `yaml:"offsetConvention"`
}

// ProfileByName returns the preset for name, falling back to standard.
func ProfileByName(name string) Profile {
	switch name {
	case ProfileLegacy:
		return Profile{
			Name:             ProfileLegacy,
			IDPrefix:         "C",
			DisplayNameOrder: DisplayCallSignNumber,
			Encoding:         "ISO-8859-1",
			OffsetConvention: OffsetLocal,
		}
	default:
		return Profile{
			Name:             ProfileStandard,
			IDPrefix:         "station.",
			DisplayNameOrder: DisplayCallSignChannelNumber,
			Encoding:         "UTF-8",
			OffsetConvention: OffsetUTC,
		}
	}
}

// UnmarshalYAML accepts either a bare preset name:
//
//	profile: legacy
//
// or a mapping that starts from a preset and overrides single fields:
//
//	profile:
//	  name: legacy
//	  idPrefix: "ch."
func (p *Profile) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var name string
		if err := value.Decode(&name); err != nil {
			return err
		}
		*p = ProfileByName(name)
		return nil
	}

	var raw struct {
		Name             *string `yaml:"name"`
		IDPrefix         *string `yaml:"idPrefix"`
		DisplayNameOrder *string `yaml:"displayNameOrder"`
		Encoding         *string `yaml:"encoding"`
		OffsetConvention *string `yaml:"offsetConvention"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Name != nil {
		*p = ProfileByName(*raw.Name)
	}
	if raw.IDPrefix != nil {
		p.IDPrefix = *raw.IDPrefix
	}
	if raw.DisplayNameOrder != nil {
		p.DisplayNameOrder = *raw.DisplayNameOrder
	}
	if raw.Encoding != nil {
		p.Encoding = *raw.Encoding
	}
	if raw.OffsetConvention != nil {
		p.OffsetConvention = *raw.OffsetConvention
	}
	return nil
}

func (p Profile) validate() error {
	switch p.DisplayNameOrder {
	case DisplayCallSignChannelNumber, DisplayCallSignNumber:
	default:
		return fmt.Errorf("unknown displayNameOrder %q", p.DisplayNameOrder)
	}
	switch p.OffsetConvention {
	case OffsetUTC, OffsetLocal:
	default:
		return fmt.Errorf("unknown offsetConvention %q", p.OffsetConvention)
	}
	switch p.Encoding {
	case "UTF-8", "ISO-8859-1":
	default:
		return fmt.Errorf("unknown encoding %q", p.Encoding)
	}
	return nil
}
