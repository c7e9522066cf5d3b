package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quantmind-br/manbuild-go/internal/build"
	"github.com/quantmind-br/manbuild-go/internal/config"
	"github.com/quantmind-br/manbuild-go/internal/introspect"
	"github.com/quantmind-br/manbuild-go/internal/project"
	"github.com/quantmind-br/manbuild-go/internal/spec"
	"github.com/quantmind-br/manbuild-go/internal/utils"
	"github.com/quantmind-br/manbuild-go/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "manbuild",
	Short: "Build and install man pages for Python argparse projects",
	Long: `manbuild generates UNIX manual pages from the argparse parsers a Python
project declares in its packaging metadata.

Each project lists its pages in pyproject.toml (or setup.cfg for the
install step) as one line per page:

  manpage.1:function=get_parser:pyfile=bin/mytool:author=Jane Doe <jane@example.org>

The build command introspects every declared parser with the project's
Python interpreter and renders man(7) pages next to the sources; the
install command copies the built pages into <data-root>/share/man/man1.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the manual pages the project declares",
	Long: `Build resolves the manpages specification (--manpages overrides the
[tool.build_manpages] table in pyproject.toml), completes each record
from the project metadata, introspects the declared parsers and writes
the rendered pages into the project directory.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install built manual pages into a data root",
	Long: `Install reads the manpages specification from setup.cfg (falling back to
pyproject.toml) and copies each built page into <data-root>/share/man/man1,
optionally gzip-compressing the installed copies.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the project and environment for common problems",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version.Full())
		return nil
	},
}

var (
	projectDir string
	verbose    bool

	log *utils.Logger

	// Test seam.
	execLookPath = exec.LookPath
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project-dir", "C", ".", "Python project directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	buildCmd.Flags().StringP("manpages", "O", "", "Manpages specification text (overrides pyproject.toml)")
	buildCmd.Flags().Bool("dry-run", false, "Resolve and render without writing any files")

	installCmd.Flags().StringP("data-root", "D", build.DefaultDataRoot, "Installation prefix for share/man")
	installCmd.Flags().BoolP("compress", "z", false, "Gzip the installed pages")
	installCmd.Flags().Bool("dry-run", false, "Report what would be installed without writing")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() *utils.Logger {
	level := "info"
	if verbose {
		level = "debug"
	}
	return utils.NewLogger(utils.LoggerOptions{
		Level:   level,
		Format:  "pretty",
		Verbose: verbose,
	})
}

// signalContext cancels the returned context on SIGINT or SIGTERM so a
// hung Python interpreter does not block shutdown.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	return ctx, cancel
}

// configurePages resolves the manpages specification for dir and returns
// the parsed records completed from the project metadata.
func configurePages(dir, override string) (*spec.Pages, error) {
	text, err := config.Resolve(override, dir)
	if err != nil {
		return nil, err
	}
	pages, err := spec.Parse(text)
	if err != nil {
		return nil, err
	}
	meta := project.Load(dir)
	for _, page := range pages.All() {
		project.Complete(meta, page)
	}
	return pages, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	log = newLogger()

	override, _ := cmd.Flags().GetString("manpages")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	dir := utils.ExpandPath(projectDir)

	ctx, cancel := signalContext()
	defer cancel()

	var pages *spec.Pages
	pipeline := build.NewPipeline(
		build.Step{Name: "configure", Run: func(ctx context.Context) error {
			parsed, err := configurePages(dir, override)
			if err != nil {
				return err
			}
			log.Debug().Int("pages", parsed.Len()).Msg("Specification resolved")
			pages = parsed
			return nil
		}},
		build.Step{Name: "build_manpages", Run: func(ctx context.Context) error {
			builder := build.NewBuilder(build.BuilderOptions{
				Resolver: introspect.NewPythonResolver(dir),
				Logger:   log,
				Dir:      dir,
				DryRun:   dryRun,
			})
			return builder.Run(ctx, pages)
		}},
	)

	return pipeline.Run(ctx)
}

func runInstall(cmd *cobra.Command, args []string) error {
	log = newLogger()

	dataRoot, _ := cmd.Flags().GetString("data-root")
	compress, _ := cmd.Flags().GetBool("compress")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	dir := utils.ExpandPath(projectDir)

	ctx, cancel := signalContext()
	defer cancel()

	var pages *spec.Pages
	pipeline := build.NewPipeline(
		build.Step{Name: "configure", Run: func(ctx context.Context) error {
			text, err := config.ResolveInstall(dir)
			if err != nil {
				return err
			}
			pages, err = spec.Parse(text)
			return err
		}},
		build.Step{Name: "install_manpages", Run: func(ctx context.Context) error {
			installer := build.NewInstaller(build.InstallerOptions{
				Logger:   log,
				Dir:      dir,
				DataRoot: utils.ExpandPath(dataRoot),
				Compress: compress,
				DryRun:   dryRun,
			})
			return installer.Run(ctx, pages)
		}},
	)

	return pipeline.Run(ctx)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("Checking project and environment...")
	fmt.Println()

	dir := utils.ExpandPath(projectDir)
	allPassed := true

	// Check Python interpreter
	python := introspect.DefaultPython
	if env := os.Getenv(introspect.PythonEnv); env != "" {
		python = env
	}
	fmt.Printf("  Python interpreter (%s): ", python)
	if path, err := execLookPath(python); err == nil {
		fmt.Printf("OK (%s)\n", path)
	} else {
		fmt.Println("FAILED (not found in PATH)")
		allPassed = false
	}

	// Check manpages specification
	fmt.Print("  Manpages specification: ")
	text, err := config.ResolveInstall(dir)
	if err != nil {
		fmt.Println("FAILED (no manpages entry in setup.cfg or pyproject.toml)")
		allPassed = false
	} else {
		fmt.Println("OK")
	}

	// Check specification grammar
	fmt.Print("  Specification grammar: ")
	if err != nil {
		fmt.Println("SKIPPED")
	} else if pages, perr := spec.Parse(text); perr != nil {
		fmt.Printf("FAILED (%v)\n", perr)
		allPassed = false
	} else {
		fmt.Printf("OK (%d pages)\n", pages.Len())
	}

	// Check project metadata
	fmt.Print("  Project metadata: ")
	if meta := project.Load(dir); meta.Name != "" {
		fmt.Printf("OK (%s)\n", meta.Name)
	} else {
		fmt.Println("none (records must carry their own description and version)")
	}

	fmt.Println()
	if allPassed {
		fmt.Println("All checks passed!")
	} else {
		fmt.Println("Some checks failed. manbuild build may not work correctly.")
	}

	return nil
}
