package spec

import (
	"path/filepath"
	"strings"
)

// attrFields maps metadata option names to the Page field they fill.
// Every option listed here may appear at most once per record; anything
// absent from this table and from the special cases in set is unknown.
var attrFields = map[string]func(*Page) *string{
	"prog":             func(p *Page) *string { return &p.Prog },
	"description":      func(p *Page) *string { return &p.Description },
	"long_description": func(p *Page) *string { return &p.LongDescription },
	"project_name":     func(p *Page) *string { return &p.ProjectName },
	"version":          func(p *Page) *string { return &p.Version },
	"url":              func(p *Page) *string { return &p.URL },
	"date":             func(p *Page) *string { return &p.Date },
	"manual_section":   func(p *Page) *string { return &p.ManualSection },
	"manual_title":     func(p *Page) *string { return &p.ManualTitle },
	"include":          func(p *Page) *string { return &p.Include },
	"manfile":          func(p *Page) *string { return &p.Manfile },
}

// Parse converts a manpages specification into per-page records. Empty
// and whitespace-only lines are skipped. The first grammar problem aborts
// the whole parse with a *GrammarError.
func Parse(text string) (*Pages, error) {
	pages := newPages()
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		page, err := parseLine(i+1, line)
		if err != nil {
			return nil, err
		}
		pages.put(page)
	}
	return pages, nil
}

func parseLine(lineNo int, line string) (*Page, error) {
	tokens := strings.Split(line, ":")
	page := &Page{OutputFile: tokens[0]}
	if page.OutputFile == "" {
		return nil, &GrammarError{Line: lineNo, Err: ErrEmptyOutputFile}
	}
	seen := make(map[string]bool)
	for _, token := range tokens[1:] {
		name, value, ok := strings.Cut(token, "=")
		if !ok {
			return nil, &GrammarError{Line: lineNo, Option: token, Err: ErrMalformedOption}
		}
		if err := page.set(seen, name, value); err != nil {
			return nil, &GrammarError{Line: lineNo, Option: name, Err: err}
		}
	}
	return page, nil
}

// set applies one name=value option, enforcing the at-most-once rules.
// The seen map tracks which slots the record has already claimed;
// "function" and "object" share one slot, as do "pyfile" and "module".
func (p *Page) set(seen map[string]bool, name, value string) error {
	switch name {
	case "function", "object":
		if seen["objtype"] {
			return ErrDuplicateOption
		}
		seen["objtype"] = true
		p.ObjType = name
		p.ObjName = value

	case "pyfile", "module":
		if seen["import_type"] {
			return ErrDuplicateOption
		}
		seen["import_type"] = true
		p.ImportType = name
		p.ImportFrom = value
		if name == "pyfile" {
			// A script's basename doubles as the program name, and claims
			// the prog slot so a later explicit prog= is rejected.
			seen["prog"] = true
			p.Prog = filepath.Base(value)
		}

	case "format":
		if seen["format"] {
			return ErrDuplicateOption
		}
		seen["format"] = true
		p.Format = value

	case "author":
		p.Authors = append(p.Authors, value)

	default:
		field, ok := attrFields[name]
		if !ok {
			return ErrUnknownOption
		}
		if seen[name] {
			return ErrDuplicateOption
		}
		seen[name] = true
		*field(p) = value
	}
	return nil
}
