package introspect

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/manbuild-go/internal/domain"
)

// ResolveError reports a failed attempt to import and describe the
// parser object a page targets.
type ResolveError struct {
	Target domain.Target
	Stderr string
	Err    error
}

func (e *ResolveError) Error() string {
	msg := fmt.Sprintf("resolve parser %s=%s %s=%s: %v",
		e.Target.ImportType, e.Target.ImportFrom, e.Target.ObjType, e.Target.ObjName, e.Err)
	if line := lastLine(e.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// lastLine extracts the final non-empty line of helper output; for a
// Python traceback that is the exception itself.
func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
