package integration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/manbuild-go/internal/build"
	"github.com/quantmind-br/manbuild-go/internal/config"
	"github.com/quantmind-br/manbuild-go/internal/introspect"
	"github.com/quantmind-br/manbuild-go/internal/project"
	"github.com/quantmind-br/manbuild-go/internal/spec"
	"github.com/quantmind-br/manbuild-go/internal/utils"
	"github.com/quantmind-br/manbuild-go/tests/testutil"
)

func quietLogger() *utils.Logger {
	return utils.NewLogger(utils.LoggerOptions{
		Level:  "error",
		Format: "json",
		Output: io.Discard,
	})
}

// configure mirrors the CLI's configure step: resolve the specification,
// parse it and complete the records from the project metadata.
func configure(t *testing.T, dir, override string) *spec.Pages {
	t.Helper()

	text, err := config.Resolve(override, dir)
	require.NoError(t, err)

	pages, err := spec.Parse(text)
	require.NoError(t, err)

	meta := project.Load(dir)
	for _, page := range pages.All() {
		project.Complete(meta, page)
	}
	return pages
}

func TestBuildFlow_PyprojectToManPage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testutil.RequirePython(t)

	dir := testutil.TempDir(t)
	testutil.WriteFile(t, dir, "pyproject.toml", `[project]
name = "mytool"
version = "2.0.1"
description = "Frobnicates widgets"
authors = [{name = "Jane Doe", email = "jane@example.org"}]

[project.urls]
Homepage = "https://example.org/mytool"

[tool.build_manpages]
manpages = [
    "man/mytool.1:function=get_parser:pyfile=bin/mytool.py",
]
`)
	testutil.WriteFile(t, dir, "bin/mytool.py", `import argparse


def get_parser():
    parser = argparse.ArgumentParser(prog="mytool")
    parser.add_argument("--count", type=int, default=1, help="how many times")
    parser.add_argument("path", help="input path")
    return parser


if __name__ == "__main__":
    get_parser().parse_args()
`)

	var pages *spec.Pages
	pipeline := build.NewPipeline(
		build.Step{Name: "configure", Run: func(ctx context.Context) error {
			pages = configure(t, dir, "")
			return nil
		}},
		build.Step{Name: "build_manpages", Run: func(ctx context.Context) error {
			builder := build.NewBuilder(build.BuilderOptions{
				Resolver: introspect.NewPythonResolver(dir),
				Logger:   quietLogger(),
				Dir:      dir,
			})
			return builder.Run(ctx, pages)
		}},
	)
	require.NoError(t, pipeline.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "man", "mytool.1"))
	require.NoError(t, err)
	content := string(data)

	// Prog comes from the pyfile basename, the rest from project metadata.
	assert.Contains(t, content, `.TH "mytool.py" "1"`)
	assert.Contains(t, content, `"mytool 2.0.1" "Generated Python Manual"`)
	assert.Contains(t, content, "Frobnicates widgets")
	assert.Contains(t, content, `\fB\-\-count\fR`)
	assert.Contains(t, content, "(default: 1)")
	assert.Contains(t, content, `.SH "AUTHORS"`)
	assert.Contains(t, content, "Jane Doe <jane@example.org>")
	assert.Contains(t, content, `.SH "DISTRIBUTION"`)
	assert.Contains(t, content, ".UR https://example.org/mytool")
}

func TestBuildFlow_ModuleWithCommandsSection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testutil.RequirePython(t)

	dir := testutil.TempDir(t)
	testutil.WriteFile(t, dir, "tool.py", `import argparse


def get_parser():
    parser = argparse.ArgumentParser(prog="placeholder")
    sub = parser.add_subparsers(dest="command")
    run = sub.add_parser("run", help="run the thing")
    run.add_argument("--fast", action="store_true", help="skip checks")
    sub.add_parser("stop", help="stop the thing")
    return parser
`)

	override := "tool.1:function=get_parser:module=tool:prog=tool:format=single-commands-section"
	pages := configure(t, dir, override)

	builder := build.NewBuilder(build.BuilderOptions{
		Resolver: introspect.NewPythonResolver(dir),
		Logger:   quietLogger(),
		Dir:      dir,
	})
	require.NoError(t, builder.Run(context.Background(), pages))

	data, err := os.ReadFile(filepath.Join(dir, "tool.1"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, `.TH "tool" "1"`)
	assert.Contains(t, content, `.SH "COMMANDS"`)
	assert.Contains(t, content, `.SS "run"`)
	assert.Contains(t, content, `.SS "stop"`)
	assert.Contains(t, content, `\fB\-\-fast\fR`)
}

func TestInstallFlow_SetupCfgWithCompression(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := testutil.TempDir(t)
	dataRoot := testutil.TempDir(t)

	testutil.WriteFile(t, dir, "setup.cfg", `[build_manpages]
manpages =
    man/tool.1
    man/helper.1
`)
	testutil.WriteFile(t, dir, "man/tool.1", ".TH tool 1\n")
	testutil.WriteFile(t, dir, "man/helper.1", ".TH helper 1\n")

	text, err := config.ResolveInstall(dir)
	require.NoError(t, err)
	pages, err := spec.Parse(text)
	require.NoError(t, err)

	installer := build.NewInstaller(build.InstallerOptions{
		Logger:   quietLogger(),
		Dir:      dir,
		DataRoot: dataRoot,
		Compress: true,
	})
	require.NoError(t, installer.Run(context.Background(), pages))

	installed := filepath.Join(dataRoot, "share", "man", "man1", "tool.1.gz")
	f, err := os.Open(installed)
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	unpacked, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, ".TH tool 1\n", string(unpacked))

	assert.FileExists(t, filepath.Join(dataRoot, "share", "man", "man1", "helper.1.gz"))
	assert.NoFileExists(t, filepath.Join(dataRoot, "share", "man", "man1", "tool.1"))
}
