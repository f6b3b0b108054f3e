package identifier

var reserved = func() map[string]bool {
	words := []string{
		// Swift
		"associatedtype", "class", "deinit", "enum", "extension", "fileprivate", "func",
		"import", "init", "inout", "internal", "let", "open", "operator", "private",
		"precedencegroup", "protocol", "public", "rethrows", "static", "struct",
		"subscript", "typealias", "var", "break", "case", "catch", "continue",
		"default", "defer", "do", "else", "fallthrough", "for", "guard", "if", "in",
		"repeat", "return", "throw", "switch", "where", "while", "Any", "as", "await",
		"false", "is", "nil", "self", "Self", "super", "throws", "true", "try",
		"Type", "Protocol",
		// Objective-C / C
		"auto", "char", "const", "double", "extern", "float", "goto", "inline", "int",
		"long", "register", "restrict", "short", "signed", "sizeof", "typedef", "union",
		"unsigned", "void", "volatile", "id", "YES", "NO", "NULL", "BOOL",
		// Go
		"chan", "const", "func", "go", "interface", "map", "package", "range",
		"select", "type",
		// Names used by the generated scaffolding itself.
		"R", "hostingBundle", "validate", "instantiate", "initialViewController",
		"storyboardName", "rawTable",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}()

// IsReserved reports whether name is a keyword in any target syntax.
func IsReserved(name string) bool {
	return reserved[name]
}
