package ecat

import "fmt"

// Sdo addresses one object dictionary entry on a slave: an index plus
// either a sub-index or the complete-access marker (the whole object is
// transferred at once). Sdo is a comparable value and is used as a map
// key throughout the mapping layer.
type Sdo struct {
	Index uint16
	Sub   uint8
	// Complete marks complete access; Sub must be 0 then.
	Complete bool
}

// SdoSub addresses a single sub-index of an object.
func SdoSub(index uint16, sub uint8) Sdo {
	return Sdo{Index: index, Sub: sub}
}

// SdoComplete addresses an object with complete access.
func SdoComplete(index uint16) Sdo {
	return Sdo{Index: index, Complete: true}
}

func (s Sdo) String() string {
	if s.Complete {
		return fmt.Sprintf("%04X:--", s.Index)
	}
	return fmt.Sprintf("%04X:%02X", s.Index, s.Sub)
}

// Validate rejects addresses that cannot exist in an object dictionary.
func (s Sdo) Validate() error {
	if s.Complete && s.Sub != 0 {
		return fmt.Errorf("ecat: complete access sdo %04X must not carry sub-index %d", s.Index, s.Sub)
	}
	return nil
}
