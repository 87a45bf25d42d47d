// Package profile loads process-data requirement profiles from YAML.
// A profile declares, per slave, which object dictionary entries the
// application exchanges and how they decode. Applying a profile fills
// a mapping.Registry and produces the mapping.Dictionary the resolver
// needs, so the set of exchanged entries can live in deployment
// configuration instead of code.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fieldio/ecat"
	"github.com/fieldio/ecat/mapping"
)

type Profile struct {
	Slaves []SlaveProfile `yaml:"slaves"`
}

type SlaveProfile struct {
	Position uint16        `yaml:"position"`
	Name     string        `yaml:"name"`
	Entries  []EntryConfig `yaml:"entries"`
}

type EntryConfig struct {
	Index     uint16 `yaml:"index"`
	Sub       *uint8 `yaml:"sub"` // nil => complete access
	Type      string `yaml:"type"`
	Direction string `yaml:"direction"`
}

// Load reads and parses a profile file. The result is validated.
func Load(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a profile from YAML bytes and validates it.
func Parse(raw []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("profile: parse: %w", err)
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

var typeNames = map[string]mapping.TypeID{
	"bool": mapping.TypeBool,
	"i8":   mapping.TypeI8,
	"i16":  mapping.TypeI16,
	"i32":  mapping.TypeI32,
	"u8":   mapping.TypeU8,
	"u16":  mapping.TypeU16,
	"u32":  mapping.TypeU32,
	"f32":  mapping.TypeF32,
	"f64":  mapping.TypeF64,
}

var dirNames = map[string]ecat.Direction{
	"input":  ecat.DirInput,
	"output": ecat.DirOutput,
}

func (e EntryConfig) sdo() ecat.Sdo {
	if e.Sub == nil {
		return ecat.SdoComplete(e.Index)
	}
	return ecat.SdoSub(e.Index, *e.Sub)
}

// Validate checks profile correctness.
// It performs declarative validation only.
// It MUST NOT mutate the profile.
func Validate(p *Profile) error {
	type entryKey struct {
		slave uint16
		sdo   ecat.Sdo
		dir   ecat.Direction
	}
	seenSlave := make(map[uint16]string)
	seenEntry := make(map[entryKey]struct{})

	for _, s := range p.Slaves {
		if prev, ok := seenSlave[s.Position]; ok {
			return fmt.Errorf("profile: position %d declared by slaves %q and %q", s.Position, prev, s.Name)
		}
		seenSlave[s.Position] = s.Name

		if len(s.Entries) == 0 {
			return fmt.Errorf("profile: slave %q (position %d) has no entries", s.Name, s.Position)
		}

		for _, e := range s.Entries {
			sdo := e.sdo()
			if err := sdo.Validate(); err != nil {
				return fmt.Errorf("profile: slave %q entry %s: %w", s.Name, sdo, err)
			}
			if _, ok := typeNames[e.Type]; !ok {
				return fmt.Errorf("profile: slave %q entry %s: unknown type %q", s.Name, sdo, e.Type)
			}
			dir, ok := dirNames[e.Direction]
			if !ok {
				return fmt.Errorf("profile: slave %q entry %s: direction must be input or output, got %q",
					s.Name, sdo, e.Direction)
			}
			k := entryKey{slave: s.Position, sdo: sdo, dir: dir}
			if _, dup := seenEntry[k]; dup {
				return fmt.Errorf("profile: slave %q declares %s %s twice", s.Name, sdo, dir)
			}
			seenEntry[k] = struct{}{}
		}
	}
	return nil
}

// Apply registers every profile entry as a requirement and returns the
// dictionary describing how each entry decodes. The profile must have
// been validated; Load and Parse already do.
func (p *Profile) Apply(reg *mapping.Registry) (mapping.Dictionary, error) {
	dict := make(mapping.Dictionary)
	for _, s := range p.Slaves {
		pos := ecat.SlavePos(s.Position)
		for _, e := range s.Entries {
			sdo := e.sdo()
			typ := typeNames[e.Type]
			if prev, ok := dict[sdo]; ok && prev.Type != typ {
				return nil, fmt.Errorf("profile: entry %s declared as both %s and %s", sdo, prev.Type, typ)
			}
			dict[sdo] = mapping.Entry{BitLen: typ.BitLen(), Type: typ}
			if err := reg.Require(pos, sdo, dirNames[e.Direction]); err != nil {
				return nil, fmt.Errorf("profile: slave %q: %w", s.Name, err)
			}
		}
	}
	return dict, nil
}
