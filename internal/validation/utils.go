package validation

import "regexp"

// uuidRegex matches the standard UUID format:
// xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValidUUID checks whether a string matches UUID format. It
// validates format only, not version/variant semantics. Route guards
// use it to reject malformed :id params before touching the database.
func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(uuid)
}
