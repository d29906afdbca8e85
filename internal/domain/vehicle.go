package domain

import (
	"regexp"
	"strings"
)

// vehicleNumberRe формат номерного знака после нормализации:
// код региона, серия, четырёхзначный номер (например KA01AB1234)
var vehicleNumberRe = regexp.MustCompile(`^[A-Z]{2}[0-9]{1,2}[A-Z]{0,3}[0-9]{4}$`)

// NormalizeVehicleNumber converts a vehicle number to its canonical form:
// uppercase with spaces and hyphens stripped
func NormalizeVehicleNumber(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// IsValidVehicleNumber reports whether a normalized vehicle number has a valid format
func IsValidVehicleNumber(normalized string) bool {
	return vehicleNumberRe.MatchString(normalized)
}
