package models

// Import is a canonical import: the qualifier used in type text and the import path
type Import struct {
	Name string
	Path string
}

// Module represents a struct embedding one of the scope markers
type Module struct {
	Name    string // struct name
	Package Import // package the module is declared in
	Scope   Scope  // default scope for its providers
	File    string // file declaring the struct
	Line    int
}
