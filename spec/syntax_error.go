package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrEmptyQuotedSymbol = newSyntaxError("a quoted symbol must not be empty")

	// syntax errors
	synErrInvalidToken       = newSyntaxError("invalid token")
	synErrNoDeclaration      = newSyntaxError("an alphabet must have at least one declaration")
	synErrNoDirectiveName    = newSyntaxError("a directive needs a name")
	synErrNoDeclarationName  = newSyntaxError("a declaration name is missing")
	synErrNoColon            = newSyntaxError("the colon must precede the symbols of a declaration")
	synErrNoSymbol           = newSyntaxError("a declaration needs at least one symbol")
	synErrNoSemicolon        = newSyntaxError("the semicolon is missing at the end of a statement")
	synErrUnknownDeclaration = newSyntaxError("unknown declaration; use `nonterminals` or `terminals`")
)
