package model

// Path represents a file system path.
type Path string

// IntegrityLevel names the integrity level of a heap value in snapshot documents.
type IntegrityLevel string

const (
	// IntegrityNone is an extensible value.
	IntegrityNone IntegrityLevel = "none"
	// IntegrityNonExtensible is a value that rejects new properties.
	IntegrityNonExtensible IntegrityLevel = "nonextensible"
	// IntegritySealed is a non-extensible value with non-configurable properties.
	IntegritySealed IntegrityLevel = "sealed"
	// IntegrityFrozen is a sealed value whose data properties are read-only.
	IntegrityFrozen IntegrityLevel = "frozen"
)

// SnapshotVersion is the current snapshot document version.
const SnapshotVersion = 1

// ValueKind names the kind of a heap value in snapshot documents.
type ValueKind string

const (
	// ValueObject is a plain object.
	ValueObject ValueKind = "object"
	// ValueFunction is an ordinary or arrow function.
	ValueFunction ValueKind = "function"
	// ValueClass is a class constructor.
	ValueClass ValueKind = "class"
	// ValueBuffer is a fixed-size byte buffer.
	ValueBuffer ValueKind = "buffer"
)

// Document is a serialised heap graph.
type Document struct {
	Version int           `yaml:"version" json:"version"`
	Root    string        `yaml:"root" json:"root"`
	Values  []ValueRecord `yaml:"values" json:"values"`
}

// ValueRecord describes one heap value of a Document.
type ValueRecord struct {
	ID         string           `yaml:"id" json:"id"`
	Kind       ValueKind        `yaml:"kind" json:"kind"`
	Integrity  IntegrityLevel   `yaml:"integrity,omitempty" json:"integrity,omitempty"`
	Name       string           `yaml:"name,omitempty" json:"name,omitempty"`
	Source     string           `yaml:"source,omitempty" json:"source,omitempty"`
	Arrow      bool             `yaml:"arrow,omitempty" json:"arrow,omitempty"`
	Prototype  string           `yaml:"prototype,omitempty" json:"prototype,omitempty"`
	Bytes      []int            `yaml:"bytes,omitempty" json:"bytes,omitempty"`
	Properties []PropertyRecord `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// PropertyRecord describes one own property. Exactly one of the value
// fields is set; attribute pointers default to true when nil.
type PropertyRecord struct {
	Name         string   `yaml:"name" json:"name"`
	Ref          string   `yaml:"ref,omitempty" json:"ref,omitempty"`
	String       *string  `yaml:"string,omitempty" json:"string,omitempty"`
	Number       *float64 `yaml:"number,omitempty" json:"number,omitempty"`
	Bool         *bool    `yaml:"bool,omitempty" json:"bool,omitempty"`
	Null         bool     `yaml:"null,omitempty" json:"null,omitempty"`
	Undefined    bool     `yaml:"undefined,omitempty" json:"undefined,omitempty"`
	Symbol       *string  `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Writable     *bool    `yaml:"writable,omitempty" json:"writable,omitempty"`
	Enumerable   *bool    `yaml:"enumerable,omitempty" json:"enumerable,omitempty"`
	Configurable *bool    `yaml:"configurable,omitempty" json:"configurable,omitempty"`
}

// Graph is a heap graph loaded from a snapshot, with the ids of its values.
type Graph struct {
	Root Value
	IDs  map[Value]string
}
