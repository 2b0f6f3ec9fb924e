package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const defaultPatternCacheSize = 256

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	patterns   *lruCache[*regexp.Regexp]
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithPatternCache sets how many compiled regular expressions are kept
func WithPatternCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.patterns = newLRUCache[*regexp.Regexp](size)
		}
	}
}

// NewExprCompiler creates a compiler for Mailgun route expressions
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		patterns: newLRUCache[*regexp.Regexp](defaultPatternCacheSize),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type exprCompiler struct {
	cache    *lruCache[CompiledFilter]
	patterns *lruCache[*regexp.Regexp]
}

// Compile compiles a route expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	if c.cache != nil {
		if f, ok := c.cache.Get(expression); ok {
			return f, nil
		}
	}

	source, err := normalize(expression)
	if err != nil {
		return nil, err
	}

	program, err := expr.Compile(source,
		expr.Env(signatureEnv()),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   -1,
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		patterns:   c.patterns,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Match evaluates the filter against msg
func (f *exprFilter) Match(msg Inbound) (bool, error) {
	result, err := expr.Run(f.program, f.runtimeEnv(msg))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     "failed to evaluate expression",
			Err:        err,
		}
	}

	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// signatureEnv declares the route functions for type checking at compile time
func signatureEnv() map[string]any {
	return map[string]any{
		"match_recipient": func(pattern string) (bool, error) { return false, nil },
		"match_header":    func(header, pattern string) (bool, error) { return false, nil },
		"catch_all":       func() bool { return true },
	}
}

// runtimeEnv binds the route functions to msg
func (f *exprFilter) runtimeEnv(msg Inbound) map[string]any {
	return map[string]any{
		"match_recipient": func(pattern string) (bool, error) {
			re, err := f.pattern(pattern)
			if err != nil {
				return false, err
			}
			return re.MatchString(msg.Recipient), nil
		},
		"match_header": func(header, pattern string) (bool, error) {
			re, err := f.pattern(pattern)
			if err != nil {
				return false, err
			}
			for _, value := range msg.HeaderValues(header) {
				if re.MatchString(value) {
					return true, nil
				}
			}
			return false, nil
		},
		"catch_all": func() bool { return true },
	}
}

// pattern compiles a route pattern. Patterns are anchored at the start of
// the subject and case-insensitive, like Mailgun's own matching.
func (f *exprFilter) pattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := f.patterns.Get(pattern); ok {
		return re, nil
	}

	re, err := regexp.Compile("(?i)^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	f.patterns.Put(pattern, re)
	return re, nil
}
