package battery

import "strings"

// Typical series cell count of laptop lithium packs, used to turn a nominal
// per-cell voltage into a pack voltage.
const lithiumSeriesCells = 3

// estimateVoltage guesses a pack voltage from the battery chemistry name.
// It is a last-resort fallback for systems that expose no voltage reading
// at all; direct sources are always preferred.
func estimateVoltage(technology string) (float64, bool) {
	tech := strings.ToLower(technology)
	switch {
	case strings.Contains(tech, "lithium"), strings.Contains(tech, "li-ion"),
		strings.Contains(tech, "li-poly"), strings.Contains(tech, "lion"),
		strings.Contains(tech, "lipo"):
		return 3.7 * lithiumSeriesCells, true
	case strings.Contains(tech, "lead"), strings.Contains(tech, "pbac"):
		return 12.0, true
	case strings.Contains(tech, "nimh"), strings.Contains(tech, "nicd"),
		strings.Contains(tech, "nickel"):
		return 3.6, true
	}
	return 0, false
}
