package sharedref

// Option configures group construction.
type Option func(*options)

type options struct {
	allocator Allocator
}

func buildOptions(opts []Option) options {
	built := options{allocator: defaultAllocator}
	for _, opt := range opts {
		opt(&built)
	}

	if built.allocator == nil {
		built.allocator = defaultAllocator
	}

	return built
}

// WithAllocator selects the Allocator that backs the group's counter cell.
// Passing nil keeps the default heap allocator.
func WithAllocator(allocator Allocator) Option {
	return func(o *options) {
		o.allocator = allocator
	}
}
