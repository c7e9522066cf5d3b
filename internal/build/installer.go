package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/quantmind-br/manbuild-go/internal/spec"
	"github.com/quantmind-br/manbuild-go/internal/utils"
)

const (
	// ManSubdir is where section 1 pages land under the data root.
	ManSubdir = "share/man/man1"
	// DefaultDataRoot mirrors the usual installation prefix.
	DefaultDataRoot = "/usr/local"
)

// Installer copies built pages into an installation tree.
type Installer struct {
	logger   *utils.Logger
	dir      string
	dataRoot string
	compress bool
	dryRun   bool
}

// InstallerOptions contains options for creating an Installer.
type InstallerOptions struct {
	// Logger defaults to the standard logger.
	Logger *utils.Logger
	// Dir is the project directory built pages are read from.
	Dir string
	// DataRoot is the installation prefix; DefaultDataRoot when empty.
	DataRoot string
	// Compress gzips every page on the way in.
	Compress bool
	// DryRun logs the work without copying.
	DryRun bool
}

// NewInstaller creates an Installer.
func NewInstaller(opts InstallerOptions) *Installer {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	dataRoot := opts.DataRoot
	if dataRoot == "" {
		dataRoot = DefaultDataRoot
	}
	return &Installer{
		logger:   logger.WithComponent("install"),
		dir:      opts.Dir,
		dataRoot: dataRoot,
		compress: opts.Compress,
		dryRun:   opts.DryRun,
	}
}

// Run copies every output file named by the specification into
// <data root>/share/man/man1, creating the tree as needed. Destination
// names are the basenames of the output files.
func (i *Installer) Run(ctx context.Context, pages *spec.Pages) error {
	mandir := filepath.Join(i.dataRoot, ManSubdir)
	if !i.dryRun {
		if err := os.MkdirAll(mandir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", mandir, err)
		}
	}

	for _, page := range pages.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(i.dir, page.OutputFile)
		dst := filepath.Join(mandir, filepath.Base(page.OutputFile))
		if i.compress {
			dst += ".gz"
		}

		i.logger.WithPage(page.OutputFile).Info().Str("dst", dst).Msg("Installing page")
		if i.dryRun {
			continue
		}
		if i.compress {
			if err := gzipFile(src, dst); err != nil {
				return err
			}
			continue
		}
		if err := utils.CopyFile(src, dst); err != nil {
			return err
		}
	}
	return nil
}

// gzipFile writes a gzip-compressed copy of src at dst.
func gzipFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	gz := gzip.NewWriter(out)
	if _, err := gz.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("failed to compress %s: %w", src, err)
	}
	if err := gz.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to compress %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return nil
}
