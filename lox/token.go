package lox

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenIdent  TokenType = "IDENT"
	tokenNumber TokenType = "NUMBER"
	tokenString TokenType = "STRING"

	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"
	tokenLBrace    TokenType = "{"
	tokenRBrace    TokenType = "}"
	tokenComma     TokenType = ","
	tokenDot       TokenType = "."
	tokenMinus     TokenType = "-"
	tokenPlus      TokenType = "+"
	tokenSemicolon TokenType = ";"
	tokenSlash     TokenType = "/"
	tokenAsterisk  TokenType = "*"

	tokenBang   TokenType = "!"
	tokenNotEQ  TokenType = "!="
	tokenAssign TokenType = "="
	tokenEQ     TokenType = "=="
	tokenGT     TokenType = ">"
	tokenGTE    TokenType = ">="
	tokenLT     TokenType = "<"
	tokenLTE    TokenType = "<="

	tokenAnd    TokenType = "AND"
	tokenBreak  TokenType = "BREAK"
	tokenClass  TokenType = "CLASS"
	tokenElse   TokenType = "ELSE"
	tokenFalse  TokenType = "FALSE"
	tokenFun    TokenType = "FUN"
	tokenFor    TokenType = "FOR"
	tokenIf     TokenType = "IF"
	tokenNil    TokenType = "NIL"
	tokenOr     TokenType = "OR"
	tokenPrint  TokenType = "PRINT"
	tokenReturn TokenType = "RETURN"
	tokenSuper  TokenType = "SUPER"
	tokenThis   TokenType = "THIS"
	tokenTrue   TokenType = "TRUE"
	tokenVar    TokenType = "VAR"
	tokenWhile  TokenType = "WHILE"
)

var keywords = map[string]TokenType{
	"and":    tokenAnd,
	"break":  tokenBreak,
	"class":  tokenClass,
	"else":   tokenElse,
	"false":  tokenFalse,
	"for":    tokenFor,
	"fun":    tokenFun,
	"if":     tokenIf,
	"nil":    tokenNil,
	"or":     tokenOr,
	"print":  tokenPrint,
	"return": tokenReturn,
	"super":  tokenSuper,
	"this":   tokenThis,
	"true":   tokenTrue,
	"var":    tokenVar,
	"while":  tokenWhile,
}

// Token captures lexical information for the parser. Tokens are never
// mutated after scanning.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any // float64 for numbers, string for strings, nil otherwise
	Pos     Position
}

// Position identifies a location in the source file.
type Position struct {
	Line   int
	Column int
}

// Line reports the source line the token starts on.
func (t Token) Line() int { return t.Pos.Line }

func syntheticToken(tt TokenType, lexeme string, pos Position) Token {
	return Token{Type: tt, Lexeme: lexeme, Pos: pos}
}
