package report

import "strings"

// ShowSubCategoriesKey is the one preference this engine reacts to.
const ShowSubCategoriesKey = "overview.show_subcategories"

// CoerceBool applies the documented preference coercion rules:
// true/false, 1/0, yes/no, case-insensitive; anything else keeps the
// default.
func CoerceBool(value string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}

// FormatBool renders a preference boolean for storage.
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
