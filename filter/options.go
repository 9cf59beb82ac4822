package filter

import "github.com/rs/zerolog"

// Option configures a Compiler.
type Option func(*Compiler)

// WithEmptyFragment overrides the fragment returned for an empty selector.
// The default is the empty string, which callers translate into "no WHERE
// clause at all". Pass "TRUE" to make an empty selector match everything
// explicitly, or "FALSE" to make it match nothing.
func WithEmptyFragment(fragment string) Option {
	return func(c *Compiler) {
		c.emptyFragment = fragment
	}
}

// WithStrictOperators makes Compile fail with UnknownOperatorError when a
// statement uses an operator outside the supported set. The default is to
// skip such conditions and log them at debug level.
func WithStrictOperators() Option {
	return func(c *Compiler) {
		c.strict = true
	}
}

// WithLogger sets the logger used for debug observations, such as skipped
// unsupported operators. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}
