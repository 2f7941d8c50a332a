package zse

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes .zse files. Identifiers that would not survive as a single
// Atom token (those starting with a digit or a minus sign) are written as
// quoted strings.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run to end of line
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},

	{Name: "String", Pattern: `"[^"\n]*"`},
	{Name: "Int", Pattern: `-?[0-9]+`},

	// Everything else up to a delimiter: keywords, identifiers, orientations
	{Name: "Atom", Pattern: `[^\s()";]+`},
})
