package term

import (
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

// FontProfile pairs a face with the vertical metrics the scroll engine
// needs. LineHeight is the row pitch; LineOffset is the baseline padding
// above the scroll window, and doubles as the ring-wrap target row.
type FontProfile struct {
	ID         int
	Face       tinyfont.Fonter
	LineHeight int16
	LineOffset int16
}

// FontProfiles is the fixed table of selectable fonts. The menu exposes
// keys for the first three only; the largest face has no key and is
// reached programmatically (the boot pause notice uses it).
var FontProfiles = [4]FontProfile{
	{ID: 1, Face: &freemono.Regular9pt7b, LineHeight: 17, LineOffset: 13},
	{ID: 2, Face: &freemono.Regular12pt7b, LineHeight: 21, LineOffset: 16},
	{ID: 3, Face: &freemono.Regular18pt7b, LineHeight: 30, LineOffset: 23},
	{ID: 4, Face: &freemono.Regular24pt7b, LineHeight: 40, LineOffset: 31},
}

// FontByID resolves a profile id. Out-of-range ids fall back to the
// smallest font.
func FontByID(id int) FontProfile {
	for _, p := range FontProfiles {
		if p.ID == id {
			return p
		}
	}
	return FontProfiles[0]
}
