package domain

import "context"

// Resolver obtains the description of the parser object a page targets.
// The production implementation shells out to the project's Python
// interpreter; tests substitute in-memory fakes.
type Resolver interface {
	Resolve(ctx context.Context, target Target) (*ParserInfo, error)
}
