// Package units provides shared constants and validation for distance units
package units

// Unit constants
const (
	Meters = "m"
	Feet   = "ft"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Meters, Feet}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, ft"
}

// ConvertDistance converts a distance from meters to the target units.
// Depth maps and the trajectory store always carry meters.
func ConvertDistance(meters float64, targetUnits string) float64 {
	switch targetUnits {
	case Feet:
		return meters * 3.28084 // m to ft
	case Meters:
		return meters // no conversion needed
	default:
		return meters // default to meters if unknown unit
	}
}

// AxisLabel returns a human-readable axis unit name for plot labels.
func AxisLabel(unit string) string {
	switch unit {
	case Feet:
		return "feet"
	default:
		return "meters"
	}
}
