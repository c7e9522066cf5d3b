package render

import (
	"fmt"
	"os"
	"time"

	"github.com/quantmind-br/manbuild-go/internal/domain"
	"github.com/quantmind-br/manbuild-go/internal/spec"
	"github.com/quantmind-br/manbuild-go/internal/utils"
)

// LegacyWriter emits the flat pre-2.0 page layout for format "old".
// Unlike Renderer it owns the output file: formatting and writing happen
// in one step, which is why the build dispatcher treats this format
// specially. Subcommand sections are not part of the old layout.
type LegacyWriter struct {
	// Now supplies the date when the record has none.
	Now func() time.Time
}

// Write lays the page out and writes it to path, creating parent
// directories as needed.
func (w *LegacyWriter) Write(info *domain.ParserInfo, page *spec.Page, path string) error {
	doc := &roff{}
	doc.th(progName(info, page), headerSection(page), headerDate(page, w.Now), headerSource(page), headerTitle(page))

	writeName(doc, info, page)
	writeSynopsis(doc, info)
	writeDescription(doc, info, page)
	writeOptions(doc, info)
	writeAuthors(doc, page)

	if err := utils.EnsureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(doc.String()), 0644); err != nil {
		return fmt.Errorf("failed to write manual page: %w", err)
	}
	return nil
}
