package parser

import (
	"go/token"

	"github.com/gusakk/fluxsem/frontend/ast"
)

type tokenKind int

const (
	tEOF tokenKind = iota
	tIllegal
	tIdent
	tInt
	tFloat
	tString
	tDuration

	// keywords
	tPackage
	tImport
	tOption
	tBuiltin
	tTestcase
	tReturn
	tIf
	tThen
	tElse
	tAnd
	tOr
	tNot
	tExists

	// operators and punctuation
	tAdd
	tSub
	tMul
	tDiv
	tMod
	tPow
	tEq
	tNeq
	tLt
	tLte
	tGt
	tGte
	tRegexEq
	tRegexNeq
	tAssign
	tArrow
	tPipeReceive
	tPipeForward
	tLParen
	tRParen
	tLBrack
	tRBrack
	tLBrace
	tRBrace
	tComma
	tColon
	tDot
	tQuestion
)

var keywords = map[string]tokenKind{
	"package":  tPackage,
	"import":   tImport,
	"option":   tOption,
	"builtin":  tBuiltin,
	"testcase": tTestcase,
	"return":   tReturn,
	"if":       tIf,
	"then":     tThen,
	"else":     tElse,
	"and":      tAnd,
	"or":       tOr,
	"not":      tNot,
	"exists":   tExists,
}

var tokenNames = map[tokenKind]string{
	tEOF:         "end of file",
	tIllegal:     "illegal token",
	tIdent:       "identifier",
	tInt:         "integer",
	tFloat:       "float",
	tString:      "string",
	tDuration:    "duration",
	tAdd:         "+",
	tSub:         "-",
	tMul:         "*",
	tDiv:         "/",
	tMod:         "%",
	tPow:         "^",
	tEq:          "==",
	tNeq:         "!=",
	tLt:          "<",
	tLte:         "<=",
	tGt:          ">",
	tGte:         ">=",
	tRegexEq:     "=~",
	tRegexNeq:    "!~",
	tAssign:      "=",
	tArrow:       "=>",
	tPipeReceive: "<-",
	tPipeForward: "|>",
	tLParen:      "(",
	tRParen:      ")",
	tLBrack:      "[",
	tRBrack:      "]",
	tLBrace:      "{",
	tRBrace:      "}",
	tComma:       ",",
	tColon:       ":",
	tDot:         ".",
	tQuestion:    "?",
}

func (k tokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	for word, kind := range keywords {
		if kind == k {
			return word
		}
	}
	return "unknown token"
}

// item is a scanned token together with the comment group that
// immediately precedes it.
type item struct {
	kind     tokenKind
	lit      string
	pos, end token.Pos
	comments []ast.Comment
}

func (i item) Pos() token.Pos { return i.pos }
func (i item) End() token.Pos { return i.end }

func (i item) String() string {
	switch i.kind {
	case tIdent, tInt, tFloat, tDuration, tIllegal:
		return i.lit
	case tString:
		return "string " + i.lit
	default:
		return i.kind.String()
	}
}
