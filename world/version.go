package world

import (
	"fmt"

	"github.com/blang/semver/v4"
)

// MinFormatVersion is the oldest map format this renderer still
// understands. Older maps are rejected at load time rather than risking a
// silent misinterpretation of the BSP or seg tables.
const MinFormatVersion = "1.0.0"

// CheckFormatVersion parses a Level's FormatVersion and rejects it if it
// predates MinFormatVersion. The asset loader stamps FormatVersion when it
// builds a Level; this package only ever reads it back.
func CheckFormatVersion(l *Level) error {
	got, err := semver.Parse(l.FormatVersion)
	if err != nil {
		return fmt.Errorf("world: parsing level format version %q: %w", l.FormatVersion, err)
	}
	min := semver.MustParse(MinFormatVersion)
	if got.LT(min) {
		return fmt.Errorf("world: level format version %s is older than the minimum supported %s", got, min)
	}
	return nil
}
