package solidity

// Function is a function recovered from source text. Body holds the verbatim
// text from the signature line through the matching closing brace. Line
// numbers are 1-based and inclusive.
type Function struct {
	Name       string
	Visibility string // public, private, internal, external
	IsPayable  bool
	IsView     bool
	IsPure     bool
	Modifiers  []string
	LineStart  int
	LineEnd    int
	Body       string
}

// StateVariable is a state variable declaration.
type StateVariable struct {
	Name       string
	Type       string
	Visibility string // public, private, internal
	Line       int
}

// Contract owns the functions, state variables and modifier names declared
// inside its brace-matched span.
type Contract struct {
	Name           string
	Functions      []Function
	StateVariables []StateVariable
	Modifiers      []string
	LineStart      int
	LineEnd        int
}
