package index

import "fmt"

// Relation names a kind of directed edge between two type names
type Relation int

const (
	Publishes  Relation = iota // method owner -> published event
	Listens                    // method owner -> listened event
	Processes                  // type -> domain command it accepts, holds or returns
	Manages                    // repository -> managed aggregate
	Provides                   // query handler -> provided read model
	Targets                    // domain command -> target type
	Extends                    // type -> supertype
	Implements                 // type -> interface
	References                 // type -> type named by a field, parameter or return type
)

// AllRelations lists every relation in declaration order
var AllRelations = []Relation{
	Publishes,
	Listens,
	Processes,
	Manages,
	Provides,
	Targets,
	Extends,
	Implements,
	References,
}

// String returns the name of the relation
func (r Relation) String() string {
	switch r {
	case Publishes:
		return "publishes"
	case Listens:
		return "listens"
	case Processes:
		return "processes"
	case Manages:
		return "manages"
	case Provides:
		return "provides"
	case Targets:
		return "targets"
	case Extends:
		return "extends"
	case Implements:
		return "implements"
	case References:
		return "references"
	default:
		return "unknown"
	}
}

// ParseRelation converts a relation name to a Relation
func ParseRelation(s string) (Relation, error) {
	for _, r := range AllRelations {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown relation: %s", s)
}

// Edge is one forward declaration: Source relates to Target through Member
type Edge struct {
	Relation Relation
	Source   string // declaring type name
	Target   string // referenced type name
	Member   string // member path inside Source
}
