package source

// EntityID is an opaque provenance token referencing one concrete source
// item (an interval, a line, a point). The zero value is the null token and
// is skipped wherever entity sets are unioned.
type EntityID uint64

// EntityStructure describes how a column's values relate to source entities.
type EntityStructure int

const (
	// EntityStructureNone means the column carries no provenance.
	EntityStructureNone EntityStructure = iota
	// EntityStructureSimple means exactly one EntityID per row.
	EntityStructureSimple
	// EntityStructureComplex means zero or more EntityIDs per row.
	EntityStructureComplex
)

func (s EntityStructure) String() string {
	switch s {
	case EntityStructureSimple:
		return "simple"
	case EntityStructureComplex:
		return "complex"
	default:
		return "none"
	}
}
