package token

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Type is the lexical category of a token
type Type int

const (
	// Introductions
	LiteralInt Type = iota // [0-9]+
	Identifier             // [A-Za-z][A-Za-z0-9]*

	// Keywords
	KeywordTypeInt
	KeywordMain
	KeywordVoid
	KeywordReturn

	// Eliminations
	Plus
	Minus
	Star
	Slash

	// Punctuation
	PuncLeftParen
	PuncRightParen
	PuncLeftBrace
	PuncRightBrace
	PuncSemiColon

	typeCount
)

var typeNames = [typeCount]string{
	LiteralInt:     "LiteralInt",
	Identifier:     "Identifier",
	KeywordTypeInt: "KeywordTypeInt",
	KeywordMain:    "KeywordMain",
	KeywordVoid:    "KeywordVoid",
	KeywordReturn:  "KeywordReturn",
	Plus:           "Plus",
	Minus:          "Minus",
	Star:           "Star",
	Slash:          "Slash",
	PuncLeftParen:  "PuncLeftParen",
	PuncRightParen: "PuncRightParen",
	PuncLeftBrace:  "PuncLeftBrace",
	PuncRightBrace: "PuncRightBrace",
	PuncSemiColon:  "PuncSemiColon",
}

func (t Type) String() string {
	if t >= 0 && t < typeCount {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// IsKeyword reports whether t is one of the reserved-word categories
func (t Type) IsKeyword() bool { return t >= KeywordTypeInt && t <= KeywordReturn }

// KeywordMap is the closed, case-sensitive reserved-word table
var KeywordMap = map[string]Type{
	"int":    KeywordTypeInt,
	"main":   KeywordMain,
	"void":   KeywordVoid,
	"return": KeywordReturn,
}

// Punctuators maps each single-byte operator and punctuation mark to its type
var Punctuators = map[byte]Type{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'(': PuncLeftParen,
	')': PuncRightParen,
	'{': PuncLeftBrace,
	'}': PuncRightBrace,
	';': PuncSemiColon,
}

// Reverse mapping from Type to its fixed spelling, for keywords and punctuators
var TypeStrings = make(map[Type]string)

func init() {
	for ch, typ := range Punctuators {
		TypeStrings[typ] = string(ch)
	}
	for str, typ := range KeywordMap {
		TypeStrings[typ] = str
	}
}

// Token is a lexeme together with its category and where it starts in the source.
// Offset is a byte offset; Line and Column are 1-based.
type Token struct {
	Type   Type
	Value  string
	Offset int
	Line   int
	Column int
	Len    int
}

func (t Token) String() string {
	return strconv.Itoa(t.Line) + ":" + strconv.Itoa(t.Column) + "\t" + t.Type.String() + "\t" + t.Value
}

type jsonToken struct {
	Category string `json:"category"`
	Lexeme   string `json:"lexeme"`
	Offset   int    `json:"offset"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonToken{
		Category: t.Type.String(),
		Lexeme:   t.Value,
		Offset:   t.Offset,
		Line:     t.Line,
		Column:   t.Column,
	})
}

// Fingerprint hashes the category and lexeme of every token in order.
// Positions are ignored, so sources differing only in whitespace share a fingerprint.
func Fingerprint(toks []Token) uint64 {
	h := xxhash.New()
	var sep = []byte{0}
	for _, t := range toks {
		h.WriteString(t.Type.String())
		h.Write(sep)
		h.WriteString(t.Value)
		h.Write(sep)
	}
	return h.Sum64()
}
