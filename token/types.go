package token

import "fmt"

type TokenType int

const (
	TEOF TokenType = iota
	TLCurl
	TRCurl
	TLSquare
	TRSquare
	TLParen
	TRParen
	TColon
	TComma
	TEqual
	TIdent
	TString
	TStringName
	TNodePath
	TInteger
	TFloat
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TEOF:        "TEOF",
		TLCurl:      "TLCurl",
		TRCurl:      "TRCurl",
		TLSquare:    "TLSquare",
		TRSquare:    "TRSquare",
		TLParen:     "TLParen",
		TRParen:     "TRParen",
		TColon:      "TColon",
		TComma:      "TComma",
		TEqual:      "TEqual",
		TIdent:      "TIdent",
		TString:     "TString",
		TStringName: "TStringName",
		TNodePath:   "TNodePath",
		TInteger:    "TInteger",
		TFloat:      "TFloat",
	}[t]
}

type Token struct {
	Type TokenType
	Pos  Pos
	// Text is the decoded text of identifiers, strings and numbers.
	Text string
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos)
}

func (t *Token) String() string {
	switch t.Type {
	case TString:
		return fmt.Sprintf("%q", t.Text)
	case TStringName:
		return fmt.Sprintf("&%q", t.Text)
	case TNodePath:
		return fmt.Sprintf("^%q", t.Text)
	case TIdent, TInteger, TFloat:
		return t.Text
	case TEOF:
		return "end of file"
	}
	return map[TokenType]string{
		TLCurl:   "{",
		TRCurl:   "}",
		TLSquare: "[",
		TRSquare: "]",
		TLParen:  "(",
		TRParen:  ")",
		TColon:   ":",
		TComma:   ",",
		TEqual:   "=",
	}[t.Type]
}
