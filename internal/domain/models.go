package domain

// ParserInfo describes one command-line parser: everything a renderer
// needs to lay out a manual page. It is the decoded form of the JSON
// document produced by the introspection helper, so the field tags here
// are the wire format.
type ParserInfo struct {
	Prog        string        `json:"prog"`
	Usage       string        `json:"usage"`
	Description string        `json:"description,omitempty"`
	Epilog      string        `json:"epilog,omitempty"`
	Groups      []OptionGroup `json:"groups,omitempty"`
	Subcommands []Subcommand  `json:"subcommands,omitempty"`
}

// OptionGroup is one argument group ("positional arguments", "options",
// or a user-defined group) and its member options.
type OptionGroup struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// Option is a single command-line argument. Positional arguments have no
// flags and carry their name in Metavar.
type Option struct {
	Flags    []string `json:"flags,omitempty"`
	Metavar  string   `json:"metavar,omitempty"`
	Help     string   `json:"help,omitempty"`
	Default  string   `json:"default,omitempty"`
	Choices  []string `json:"choices,omitempty"`
	Required bool     `json:"required,omitempty"`
}

// Positional reports whether the option is a positional argument rather
// than a flag.
func (o Option) Positional() bool {
	return len(o.Flags) == 0
}

// Subcommand pairs a subparser name with its own parser description.
type Subcommand struct {
	Name   string      `json:"name"`
	Help   string      `json:"help,omitempty"`
	Parser *ParserInfo `json:"parser"`
}

// Target identifies the parser object one page is generated from.
type Target struct {
	// ImportType is "pyfile" (script path) or "module" (importable name).
	ImportType string
	// ImportFrom is the script path or module name.
	ImportFrom string
	// ObjName is the attribute path of the function or object inside the
	// imported source.
	ObjName string
	// ObjType is "function" (call it to obtain the parser) or "object"
	// (use the attribute directly).
	ObjType string
	// Prog optionally overrides the parser's own program name.
	Prog string
}
