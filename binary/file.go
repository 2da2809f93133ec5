package binary

// File is the decoded form of a binary resource.
type File struct {
	Version     int          `cbor:"1,keyasint"`
	Type        string       `cbor:"2,keyasint"`
	UID         string       `cbor:"3,keyasint,omitempty"`
	Scene       bool         `cbor:"4,keyasint,omitempty"`
	Externals   []External   `cbor:"5,keyasint,omitempty"`
	Embedded    []Object     `cbor:"6,keyasint,omitempty"`
	Main        *Object      `cbor:"7,keyasint,omitempty"`
	Nodes       []Node       `cbor:"8,keyasint,omitempty"`
	Connections []Connection `cbor:"9,keyasint,omitempty"`
	Editables   []string     `cbor:"10,keyasint,omitempty"`
}

type External struct {
	ID   string `cbor:"1,keyasint"`
	Type string `cbor:"2,keyasint"`
	Path string `cbor:"3,keyasint"`
	UID  string `cbor:"4,keyasint,omitempty"`
}

type Object struct {
	ID    string     `cbor:"1,keyasint"`
	Class string     `cbor:"2,keyasint"`
	Props []Property `cbor:"3,keyasint,omitempty"`
}

type Property struct {
	Name  string `cbor:"1,keyasint"`
	Value Value  `cbor:"2,keyasint"`
}

// Value is a variant.Value.  Name holds the constructor of a constructor
// value and the element type of a typed array.
type Value struct {
	Type   uint8   `cbor:"1,keyasint"`
	Bool   bool    `cbor:"2,keyasint,omitempty"`
	Int    int64   `cbor:"3,keyasint,omitempty"`
	Float  float64 `cbor:"4,keyasint,omitempty"`
	String string  `cbor:"5,keyasint,omitempty"`
	Name   string  `cbor:"6,keyasint,omitempty"`
	Keys   []Value `cbor:"7,keyasint,omitempty"`
	Values []Value `cbor:"8,keyasint,omitempty"`
	Ref    *Ref    `cbor:"9,keyasint,omitempty"`
}

// Ref is an object reference; a null reference has no Ref.
type Ref struct {
	External bool   `cbor:"1,keyasint,omitempty"`
	ID       string `cbor:"2,keyasint"`
}

type Node struct {
	Name                string     `cbor:"1,keyasint"`
	Type                string     `cbor:"2,keyasint,omitempty"`
	Parent              string     `cbor:"3,keyasint,omitempty"`
	Owner               string     `cbor:"4,keyasint,omitempty"`
	Index               int        `cbor:"5,keyasint"`
	Groups              []string   `cbor:"6,keyasint,omitempty"`
	Instance            *Ref       `cbor:"7,keyasint,omitempty"`
	InstancePlaceholder string     `cbor:"8,keyasint,omitempty"`
	Props               []Property `cbor:"9,keyasint,omitempty"`
}

type Connection struct {
	Signal string `cbor:"1,keyasint"`
	From   string `cbor:"2,keyasint"`
	To     string `cbor:"3,keyasint"`
	Method string `cbor:"4,keyasint"`
	Flags  int64  `cbor:"5,keyasint,omitempty"`
	Binds  *Value `cbor:"6,keyasint,omitempty"`
}
