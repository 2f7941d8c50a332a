package zse

import "github.com/alecthomas/participle/v2/lexer"

// File is the parsed form of a .zse document.
// Example: (zuse 1 (power V1 (at 0 0) (rot r0)))
type File struct {
	Version    int          `"(" "zuse" @Int`
	Components []*Component `@@* ")"`
}

// Component is one component line.
// Example: (coil K1 (at 1 0) (rot r1f) (poles 2))
type Component struct {
	Pos   lexer.Position
	Kind  string  `"(" @Atom`
	ID    string  `@( Atom | String | Int )`
	Attrs []*Attr `@@* ")"`
}

// Attr is a named attribute with zero or more arguments.
// Example: (at 4 -2), (closed)
type Attr struct {
	Pos  lexer.Position
	Name string   `"(" @Atom`
	Args []*Value `@@* ")"`
}

// Value is an attribute argument.
type Value struct {
	Int  *int    `  @Int`
	Atom *string `| @Atom`
}

// Attr returns the first attribute with the given name.
func (c *Component) Attr(name string) *Attr {
	for _, a := range c.Attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Ints returns the arguments as integers. ok is false if any argument is not
// an integer or the count differs from n.
func (a *Attr) Ints(n int) (vals []int, ok bool) {
	if len(a.Args) != n {
		return nil, false
	}
	vals = make([]int, n)
	for i, v := range a.Args {
		if v.Int == nil {
			return nil, false
		}
		vals[i] = *v.Int
	}
	return vals, true
}
