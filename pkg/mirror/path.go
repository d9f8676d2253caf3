package mirror

// PathPartType represents the type of path part
type PathPartType int

const (
	StaticPart PathPartType = iota
	ParameterPart
	WildcardPart
)

// PathPart represents a single part of a route path
type PathPart struct {
	Type  PathPartType
	Value string // literal text for static parts, the name for parameters
}

// Path is a route path in framework-neutral form: "/types/{name}/relations".
// Each adapter converts it to its router's syntax.
type Path string

// Raw returns the path as written
func (p Path) Raw() string {
	return string(p)
}

// Parts parses the path into static text, parameters and wildcards
func (p Path) Parts() []PathPart {
	path := string(p)
	var parts []PathPart

	i := 0
	for i < len(path) {
		if path[i] != '{' {
			start := i
			for i < len(path) && path[i] != '{' {
				i++
			}
			parts = append(parts, PathPart{Type: StaticPart, Value: path[start:i]})
			continue
		}

		j := i + 1
		for j < len(path) && path[j] != '}' {
			j++
		}
		if j >= len(path) {
			// unterminated, keep the brace as text
			parts = append(parts, PathPart{Type: StaticPart, Value: path[i:]})
			break
		}

		name := path[i+1 : j]
		if name == "*" {
			parts = append(parts, PathPart{Type: WildcardPart, Value: "*"})
		} else {
			parts = append(parts, PathPart{Type: ParameterPart, Value: name})
		}
		i = j + 1
	}

	return parts
}

// Convert renders the path with a router-specific parameter and wildcard syntax
func (p Path) Convert(param func(name string) string, wildcard string) string {
	out := ""
	for _, part := range p.Parts() {
		switch part.Type {
		case ParameterPart:
			out += param(part.Value)
		case WildcardPart:
			out += wildcard
		default:
			out += part.Value
		}
	}
	return out
}

// ColonPath renders parameters as ":name", the syntax shared by echo, gin and fiber
func (p Path) ColonPath(wildcard string) string {
	return p.Convert(func(name string) string { return ":" + name }, wildcard)
}
