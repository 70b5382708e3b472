package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoName               = newSemanticError("name is missing")
	semErrNoNonTerminal        = newSemanticError("a grammar needs at least one non-terminal")
	semErrNoTerminal           = newSemanticError("a grammar needs at least one terminal")
	semErrNoEndMarker          = newSemanticError("an end-marker is missing")
	semErrUndefinedStartSym    = newSemanticError("a start symbol must be a declared non-terminal")
	semErrUndefinedEndMarker   = newSemanticError("an end-marker must be a declared terminal")
	semErrDuplicateNonTerminal = newSemanticError("duplicate non-terminal")
	semErrDuplicateTerminal    = newSemanticError("duplicate terminal")
	semErrDuplicateName        = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrDuplicateLabel       = newSemanticError("different symbols must not render the same label")
	semErrDuplicateDir         = newSemanticError("a directive must not be duplicated")
	semErrDirInvalidName       = newSemanticError("invalid directive name")
	semErrDirInvalidParam      = newSemanticError("invalid parameter")
	semErrUnknownDeclaration   = newSemanticError("unknown declaration")
)
