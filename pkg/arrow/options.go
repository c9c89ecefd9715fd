package arrow

// Option customizes a registration or lookup
type Option func(*options)

type options struct {
	name string
}

// Named selects a named registration instead of the type-keyed one.
// Use it both when registering and when resolving:
//
//	arrow.Register(c, arrow.Transient, newPrimary, arrow.Named("Primary"))
//	svc := arrow.Resolve[Service](c, arrow.Named("Primary"))
func Named(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func applyOptions(opts []Option) options {
	var cfg options
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
