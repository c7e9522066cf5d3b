package project

import "github.com/quantmind-br/manbuild-go/internal/spec"

// Complete fills the gaps in a page record from distribution metadata.
// Fields the specification set explicitly are never overwritten, and
// metadata authors apply only when the record lists none.
func Complete(meta *Metadata, page *spec.Page) {
	fill(&page.ProjectName, meta.Name)
	fill(&page.Prog, meta.Name)
	fill(&page.Description, meta.Description)
	fill(&page.LongDescription, meta.LongDescription)
	fill(&page.Version, meta.Version)
	fill(&page.URL, meta.URL)
	if len(page.Authors) == 0 {
		page.Authors = append(page.Authors, meta.Authors...)
	}
}

func fill(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
