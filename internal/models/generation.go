package models

// Target describes where generated wiring code goes
type Target struct {
	PackageName string // package clause of the generated file
	ImportPath  string // import path of the target package; used to drop self-qualifiers
	Dir         string // output directory
	FileName    string // output file name, autogen_dependencies.go by default
}

// GeneratedFile is the result of a generation run
type GeneratedFile struct {
	PackageName string // name of the package
	FilePath    string // path where the file should be written
	Content     string // formatted Go source
	Registered  int    // number of registrations emitted
	Modules     int    // number of module instances created
}
