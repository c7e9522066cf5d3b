package spec

// Page is the parsed declaration of one manual page. String fields left
// empty by the specification may be filled in later from project metadata;
// an empty string always means "not set".
type Page struct {
	// OutputFile is the page's output path, relative to the project
	// directory. It is the record's identity within a specification.
	OutputFile string

	// ObjType says how to obtain the parser from the imported source:
	// "function" calls it, "object" uses it directly.
	ObjType string
	// ObjName is the attribute path of the function or object.
	ObjName string

	// ImportType says where the parser lives: "pyfile" for a script path,
	// "module" for an importable module name.
	ImportType string
	// ImportFrom is the script path or module name itself.
	ImportFrom string

	// Format selects the page layout. Empty means the default layout.
	Format string

	// Authors accumulates every author= occurrence in declaration order.
	Authors []string

	Prog            string
	Description     string
	LongDescription string
	ProjectName     string
	Version         string
	URL             string
	Date            string
	ManualSection   string
	ManualTitle     string
	Include         string

	// Manfile points at a pre-written page; when set, generation is
	// skipped for this record.
	Manfile string
}

// Prewritten reports whether the page is declared pre-written and needs
// no generation.
func (p *Page) Prewritten() bool {
	return p.Manfile != ""
}

// Pages holds the records of one specification in declaration order,
// addressable by output filename.
type Pages struct {
	names  []string
	byName map[string]*Page
}

func newPages() *Pages {
	return &Pages{byName: make(map[string]*Page)}
}

// put inserts a record. A record with an already-known output filename
// replaces the previous one but keeps its original position.
func (p *Pages) put(page *Page) {
	if _, ok := p.byName[page.OutputFile]; !ok {
		p.names = append(p.names, page.OutputFile)
	}
	p.byName[page.OutputFile] = page
}

// Get returns the record for an output filename.
func (p *Pages) Get(name string) (*Page, bool) {
	page, ok := p.byName[name]
	return page, ok
}

// Names returns the output filenames in declaration order.
func (p *Pages) Names() []string {
	names := make([]string, len(p.names))
	copy(names, p.names)
	return names
}

// All returns the records in declaration order.
func (p *Pages) All() []*Page {
	pages := make([]*Page, 0, len(p.names))
	for _, name := range p.names {
		pages = append(pages, p.byName[name])
	}
	return pages
}

// Len returns the number of records.
func (p *Pages) Len() int {
	return len(p.names)
}
