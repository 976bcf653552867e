package cliscape

// Kind selects the value type an argument is coerced to.
type Kind string

const (
	KindString  Kind = "string"
	KindInt     Kind = "int"
	KindBool    Kind = "bool"
	KindFloat64 Kind = "float64"
	KindStrings Kind = "strings"
	KindCount   Kind = "count"
)
