package filter

// Filter decides whether an inbound message satisfies a route expression
type Filter interface {
	// Match checks the message against the filter
	Match(msg Inbound) (bool, error)
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original route expression
	Expression() string
}

// Compiler compiles route expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a route expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
