// Package build drives manual-page generation and installation for the
// records of one project specification.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/manbuild-go/internal/domain"
	"github.com/quantmind-br/manbuild-go/internal/render"
	"github.com/quantmind-br/manbuild-go/internal/spec"
	"github.com/quantmind-br/manbuild-go/internal/utils"
)

// Builder generates every page of a parsed, completed specification.
type Builder struct {
	resolver domain.Resolver
	renderer *render.Renderer
	legacy   *render.LegacyWriter
	logger   *utils.Logger
	dir      string
	dryRun   bool
}

// BuilderOptions contains options for creating a Builder.
type BuilderOptions struct {
	// Resolver obtains parser descriptions; required.
	Resolver domain.Resolver
	// Logger defaults to the standard logger.
	Logger *utils.Logger
	// Dir is the project directory; output paths are relative to it.
	Dir string
	// DryRun resolves and renders but writes nothing.
	DryRun bool
}

// NewBuilder creates a Builder.
func NewBuilder(opts BuilderOptions) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &Builder{
		resolver: opts.Resolver,
		renderer: render.NewRenderer(opts.Dir),
		legacy:   &render.LegacyWriter{},
		logger:   logger.WithComponent("build"),
		dir:      opts.Dir,
		dryRun:   opts.DryRun,
	}
}

// Run generates pages in declaration order, stopping at the first
// failure. Pre-written records are skipped; every other record is
// resolved, laid out, and written.
func (b *Builder) Run(ctx context.Context, pages *spec.Pages) error {
	for _, page := range pages.All() {
		if err := b.buildPage(ctx, page); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildPage(ctx context.Context, page *spec.Page) error {
	log := b.logger.WithPage(page.OutputFile)
	if page.Prewritten() {
		log.Info().Str("manfile", page.Manfile).Msg("Using pre-written page")
		return nil
	}
	log.Info().Msg("Generating page")

	info, err := b.resolver.Resolve(ctx, domain.Target{
		ImportType: page.ImportType,
		ImportFrom: page.ImportFrom,
		ObjName:    page.ObjName,
		ObjType:    page.ObjType,
		Prog:       page.Prog,
	})
	if err != nil {
		return err
	}

	format := render.Format(page.Format)
	if format == "" {
		format = render.DefaultFormat
	}
	path := filepath.Join(b.dir, page.OutputFile)

	switch format {
	case render.FormatPretty, render.FormatSingleCommands:
		text, err := b.renderer.Render(info, format, page)
		if err != nil {
			return err
		}
		return b.write(path, text)
	case render.FormatOld:
		// The legacy layout owns its output file.
		if b.dryRun {
			log.Debug().Str("path", path).Msg("Dry run, skipping write")
			return nil
		}
		return b.legacy.Write(info, page, path)
	default:
		return &UnknownFormatError{Page: page.OutputFile, Format: page.Format}
	}
}

func (b *Builder) write(path, text string) error {
	if b.dryRun {
		b.logger.Debug().Str("path", path).Msg("Dry run, skipping write")
		return nil
	}
	if err := utils.EnsureDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write manual page: %w", err)
	}
	return nil
}
