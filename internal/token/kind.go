package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Atom is a maximal run of non-whitespace, non-parenthesis characters.
	Atom
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
)

var kindNames = [...]string{
	Invalid: "invalid",
	EOF:     "EOF",
	Atom:    "atom",
	LParen:  "lparen",
	RParen:  "rparen",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Invalid]
}
