package codegen

// receiverFamily classifies a method-call receiver; remapMethod uses it
// with the source method name to pick the emitted name from the
// vectorMethods/mapMethods tables (spec.md §4.5 method remapping table).
type receiverFamily int

const (
	familyUnknown receiverFamily = iota
	familyVector
	familyMap
)

var vectorMethods = map[string]string{
	"append":  "push",
	"pop":     "pop",
	"clear":   "clear",
	"reverse": "reverse",
	"sort":    "sort",
	"insert":  "insert",
	"extend":  "extend",
}

var mapMethods = map[string]string{
	"get":           "get",
	"insert":        "insert",
	"remove":        "remove",
	"contains_key":  "contains_key",
	"clear":         "clear",
	"keys":          "keys",
	"values":        "values",
	"items":         "iter",
	"pop":           "remove",
	"update":        "extend",
}

// mapMethodBorrowsKey lists map methods whose first argument must be
// auto-borrowed (`&key`) rather than passed by value.
var mapMethodBorrowsKey = map[string]bool{
	"get": true, "remove": true, "contains_key": true, "pop": true,
}

// checkSkipList names receiver methods whose call is never wrapped in
// the runtime `check` helper because they are infallible (spec.md §4.5).
var checkSkipList = map[string]bool{
	"as_ref": true, "as_mut": true, "deref": true, "parse_program": true,
	"len": true, "is_empty": true, "iter": true, "chars": true, "lines": true,
	"split_whitespace": true, "to_string": true, "to_uppercase": true, "to_lowercase": true,
}

func remapMethod(family receiverFamily, source string) (emitted string, borrowsKey bool, known bool) {
	switch family {
	case familyVector:
		if m, ok := vectorMethods[source]; ok {
			return m, false, true
		}
	case familyMap:
		if m, ok := mapMethods[source]; ok {
			return m, mapMethodBorrowsKey[source], true
		}
	}
	return source, false, false
}

func isMutatingVectorOrMapCall(source string) bool {
	switch source {
	case "append", "push", "pop", "clear", "insert", "extend", "remove", "update", "sort", "reverse":
		return true
	}
	return false
}
