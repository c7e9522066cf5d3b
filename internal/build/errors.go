package build

import "fmt"

// UnknownFormatError reports a record whose format is not one of the
// recognized layouts.
type UnknownFormatError struct {
	Page   string
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format %q for page %s", e.Format, e.Page)
}
