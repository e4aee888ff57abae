// Package context implements the typed hyper-graph of Contextoids a
// Causaloid may consult while evaluating: spatial, temporal and symbolic
// payloads addressed by node index, plus the current/previous index maps
// a caller uses to track which payload version is "live".
package context

import "fmt"

// Kind discriminates the payload shape a Contextoid carries.
type Kind int

const (
	KindRoot Kind = iota
	KindDatoid
	KindSpaceoid
	KindTempoid
	KindSpaceTempoid
	KindSymboid
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindDatoid:
		return "Datoid"
	case KindSpaceoid:
		return "Spaceoid"
	case KindTempoid:
		return "Tempoid"
	case KindSpaceTempoid:
		return "SpaceTempoid"
	case KindSymboid:
		return "Symboid"
	default:
		return "Unknown"
	}
}

// Contextoid is a single node in a Context: a kind tag, a stable id and an
// opaque payload. Contextoid variants are compared by id alone, matching
// the source's Identifiable contract, not by deep payload equality.
type Contextoid struct {
	id      int
	kind    Kind
	name    string
	payload interface{}
}

func NewRootoid(id int) *Contextoid {
	return &Contextoid{id: id, kind: KindRoot, name: "root"}
}

func NewDatoid(id int, name string, payload interface{}) *Contextoid {
	return &Contextoid{id: id, kind: KindDatoid, name: name, payload: payload}
}

func NewSpaceoid(id int, name string, payload interface{}) *Contextoid {
	return &Contextoid{id: id, kind: KindSpaceoid, name: name, payload: payload}
}

func NewTempoid(id int, name string, payload interface{}) *Contextoid {
	return &Contextoid{id: id, kind: KindTempoid, name: name, payload: payload}
}

func NewSpaceTempoid(id int, name string, payload interface{}) *Contextoid {
	return &Contextoid{id: id, kind: KindSpaceTempoid, name: name, payload: payload}
}

func NewSymboid(id int, name string, payload interface{}) *Contextoid {
	return &Contextoid{id: id, kind: KindSymboid, name: name, payload: payload}
}

func (c *Contextoid) ID() int              { return c.id }
func (c *Contextoid) Kind() Kind           { return c.kind }
func (c *Contextoid) Name() string         { return c.name }
func (c *Contextoid) Payload() interface{} { return c.payload }

// Equal compares two Contextoids by id only, per Identifiable::id().
func (c *Contextoid) Equal(other *Contextoid) bool {
	if other == nil {
		return false
	}
	return c.id == other.id
}

func (c *Contextoid) String() string {
	return fmt.Sprintf("Contextoid: id: %d, kind: %s, name: %s", c.id, c.kind, c.name)
}
