package arrow

// Scope defines the lifecycle of a registered dependency
type Scope int

const (
	// Transient dependencies are created fresh on every resolution
	Transient Scope = iota

	// Singleton dependencies are created once during registration and cached
	Singleton
)

// String returns the string representation of the scope
func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// SingletonScope marks a module whose providers are registered as singletons.
// Embed it in a struct to turn the struct into a module:
//
//	type CoreModule struct {
//		arrow.SingletonScope
//	}
//
//	func (m *CoreModule) ProvideLogger() *Logger {
//		return NewLogger()
//	}
type SingletonScope struct{}

// TransientScope marks a module whose providers are registered as transients.
// A provider can still opt out with a //arrow::scope singleton annotation.
type TransientScope struct{}
