package parser

const (
	// RuntimeImportPath is the import path of the runtime container package
	RuntimeImportPath = "github.com/toyz/arrow/pkg/arrow"

	// RuntimePackageName is the assumed name of RuntimeImportPath
	RuntimePackageName = "arrow"

	// Scope marker type names embedded by modules
	SingletonMarker = "SingletonScope"
	TransientMarker = "TransientScope"

	// DefaultConcurrency bounds the number of files parsed at once
	DefaultConcurrency = 8
)

// Reasons a member is not turned into a declaration
const (
	SkipUnexported       = "unexported method"
	SkipNoResult         = "no result"
	SkipResultShape      = "result must be T or (T, error)"
	SkipErrorOnly        = "provides only error"
	SkipVariadic         = "variadic parameter"
	SkipGenericReceiver  = "generic receiver"
	SkipAnnotation       = "malformed annotation"
	SkipUnknownParameter = "annotation references unknown parameter"
	SkipDefaultExpr      = "default is not a Go expression"
	SkipTypeExpr         = "unsupported type expression"
)
