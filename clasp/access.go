package clasp

// Visibility is the access level attached to a member or method.
type Visibility int

const (
	VisPrivate Visibility = iota
	VisProtected
	VisPublic
)

// defaultVisibility applies to declarations that precede any directive,
// matching C++ class semantics.
const defaultVisibility = VisPrivate

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisProtected:
		return "protected"
	case VisPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// ParseVisibility maps the textual form used by manifests and directives.
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "public":
		return VisPublic, true
	case "protected":
		return VisProtected, true
	case "private", "":
		return VisPrivate, true
	default:
		return VisPrivate, false
	}
}

// declEntry is one element of a class's ordered declaration sequence as
// consumed by the access registry: either a named declaration (member or
// method) or a visibility directive.
type declEntry struct {
	name      string
	directive bool
	level     Visibility
}

// buildAccessTable computes the name -> visibility map for one class from
// its ordered declaration sequence. It is a two-pass range assignment: all
// declarations are collected first at the default level, then each directive
// stamps the declarations between it and the next directive. A declaration
// therefore takes the nearest *preceding* directive, private when there is
// none. Registration is total; any well-formed sequence produces a table.
func buildAccessTable(seq []declEntry) map[string]Visibility {
	table := make(map[string]Visibility)
	for _, entry := range seq {
		if !entry.directive {
			table[entry.name] = defaultVisibility
		}
	}

	for i, entry := range seq {
		if !entry.directive {
			continue
		}
		end := len(seq)
		for j := i + 1; j < len(seq); j++ {
			if seq[j].directive {
				end = j
				break
			}
		}
		for _, governed := range seq[i+1 : end] {
			table[governed.name] = entry.level
		}
	}

	return table
}
