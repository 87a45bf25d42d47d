package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldio/ecat"
	"github.com/fieldio/ecat/mapping"
)

const validProfile = `
slaves:
  - position: 0
    name: drive
    entries:
      - index: 0x6040
        sub: 0
        type: u16
        direction: output
      - index: 0x6041
        sub: 0
        type: u16
        direction: input
      - index: 0x6064
        sub: 0
        type: i32
        direction: input
  - position: 2
    name: io
    entries:
      - index: 0x7000
        type: u8
        direction: output
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(validProfile))
	require.NoError(t, err)
	require.Len(t, p.Slaves, 2)

	assert.Equal(t, "drive", p.Slaves[0].Name)
	assert.Len(t, p.Slaves[0].Entries, 3)

	// No sub key means complete access.
	io := p.Slaves[1]
	assert.Nil(t, io.Entries[0].Sub)
}

func TestParseRejectsBadYaml(t *testing.T) {
	_, err := Parse([]byte("slaves: [what"))
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown type", `
slaves:
  - position: 0
    name: a
    entries:
      - index: 0x6040
        sub: 0
        type: u64
        direction: output
`},
		{"bad direction", `
slaves:
  - position: 0
    name: a
    entries:
      - index: 0x6040
        sub: 0
        type: u16
        direction: sideways
`},
		{"duplicate entry", `
slaves:
  - position: 0
    name: a
    entries:
      - index: 0x6040
        sub: 0
        type: u16
        direction: output
      - index: 0x6040
        sub: 0
        type: u16
        direction: output
`},
		{"duplicate position", `
slaves:
  - position: 0
    name: a
    entries:
      - index: 0x6040
        sub: 0
        type: u16
        direction: output
  - position: 0
    name: b
    entries:
      - index: 0x6041
        sub: 0
        type: u16
        direction: input
`},
		{"no entries", `
slaves:
  - position: 0
    name: a
`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.yaml))
			assert.Error(t, err)
		})
	}
}

func TestApply(t *testing.T) {
	p, err := Parse([]byte(validProfile))
	require.NoError(t, err)

	reg := mapping.NewRegistry()
	dict, err := p.Apply(reg)
	require.NoError(t, err)

	assert.Equal(t, []ecat.SlavePos{0, 2}, reg.Slaves())
	assert.Equal(t, []ecat.Sdo{ecat.SdoSub(0x6040, 0)}, reg.Requirements(0, ecat.DirOutput))
	assert.Equal(t,
		[]ecat.Sdo{ecat.SdoSub(0x6041, 0), ecat.SdoSub(0x6064, 0)},
		reg.Requirements(0, ecat.DirInput))
	assert.Equal(t, []ecat.Sdo{ecat.SdoComplete(0x7000)}, reg.Requirements(2, ecat.DirOutput))

	assert.Equal(t, mapping.Entry{BitLen: 16, Type: mapping.TypeU16}, dict[ecat.SdoSub(0x6041, 0)])
	assert.Equal(t, mapping.Entry{BitLen: 32, Type: mapping.TypeI32}, dict[ecat.SdoSub(0x6064, 0)])
	assert.Equal(t, mapping.Entry{BitLen: 8, Type: mapping.TypeU8}, dict[ecat.SdoComplete(0x7000)])
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validProfile), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Slaves, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
