package build

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/manbuild-go/internal/domain"
	"github.com/quantmind-br/manbuild-go/internal/spec"
	"github.com/quantmind-br/manbuild-go/internal/utils"
)

func testLogger() *utils.Logger {
	return utils.NewLogger(utils.LoggerOptions{
		Level:  "error",
		Format: "json",
		Output: io.Discard,
	})
}

// fakeResolver returns canned parser descriptions and records the
// targets it was asked for.
type fakeResolver struct {
	infos   map[string]*domain.ParserInfo // keyed by Target.ImportFrom
	err     error
	targets []domain.Target
}

func (f *fakeResolver) Resolve(_ context.Context, target domain.Target) (*domain.ParserInfo, error) {
	f.targets = append(f.targets, target)
	if f.err != nil {
		return nil, f.err
	}
	if info, ok := f.infos[target.ImportFrom]; ok {
		return info, nil
	}
	return &domain.ParserInfo{Prog: "generic", Usage: "usage: generic"}, nil
}

func parsePages(t *testing.T, text string) *spec.Pages {
	t.Helper()
	pages, err := spec.Parse(text)
	require.NoError(t, err)
	return pages
}

func TestBuilder_GeneratesPages(t *testing.T) {
	dir := t.TempDir()
	pages := parsePages(t, "man/foo.1:function=get_parser:module=foo.cli\nbar.1:object=parser:module=bar")
	fake := &fakeResolver{
		infos: map[string]*domain.ParserInfo{
			"foo.cli": {Prog: "foo", Usage: "usage: foo [-h]", Description: "Does foo things"},
		},
	}

	builder := NewBuilder(BuilderOptions{Resolver: fake, Logger: testLogger(), Dir: dir})
	err := builder.Run(context.Background(), pages)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "man", "foo.1"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `.TH "foo" "1"`)
	assert.Contains(t, string(data), "Does foo things")

	_, err = os.Stat(filepath.Join(dir, "bar.1"))
	assert.NoError(t, err)

	require.Len(t, fake.targets, 2)
	assert.Equal(t, "foo.cli", fake.targets[0].ImportFrom)
	assert.Equal(t, "function", fake.targets[0].ObjType)
	assert.Equal(t, "get_parser", fake.targets[0].ObjName)
	assert.Equal(t, "bar", fake.targets[1].ImportFrom)
}

func TestBuilder_SkipsOnlyPrewrittenRecord(t *testing.T) {
	dir := t.TempDir()
	pages := parsePages(t, "pre.1:manfile=docs/pre.1\ngen.1:module=gen")
	fake := &fakeResolver{}

	builder := NewBuilder(BuilderOptions{Resolver: fake, Logger: testLogger(), Dir: dir})
	err := builder.Run(context.Background(), pages)
	require.NoError(t, err)

	// The pre-written record is skipped, the rest still builds.
	require.Len(t, fake.targets, 1)
	assert.Equal(t, "gen", fake.targets[0].ImportFrom)

	_, err = os.Stat(filepath.Join(dir, "pre.1"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "gen.1"))
	assert.NoError(t, err)
}

func TestBuilder_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	pages := parsePages(t, "foo.1:module=foo")
	fake := &fakeResolver{}

	builder := NewBuilder(BuilderOptions{Resolver: fake, Logger: testLogger(), Dir: dir, DryRun: true})
	err := builder.Run(context.Background(), pages)
	require.NoError(t, err)

	assert.Len(t, fake.targets, 1)
	_, err = os.Stat(filepath.Join(dir, "foo.1"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuilder_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	pages := parsePages(t, "weird.1:module=w:format=weird")
	fake := &fakeResolver{}

	builder := NewBuilder(BuilderOptions{Resolver: fake, Logger: testLogger(), Dir: dir})
	err := builder.Run(context.Background(), pages)
	require.Error(t, err)

	var ferr *UnknownFormatError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "weird", ferr.Format)
	assert.Equal(t, "weird.1", ferr.Page)
	assert.Contains(t, err.Error(), `"weird"`)

	// The format is checked after resolution, not before.
	assert.Len(t, fake.targets, 1)
	_, err = os.Stat(filepath.Join(dir, "weird.1"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuilder_StopsOnResolverError(t *testing.T) {
	dir := t.TempDir()
	pages := parsePages(t, "a.1:module=a\nb.1:module=b")
	boom := errors.New("boom")
	fake := &fakeResolver{err: boom}

	builder := NewBuilder(BuilderOptions{Resolver: fake, Logger: testLogger(), Dir: dir})
	err := builder.Run(context.Background(), pages)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, fake.targets, 1)
}

func TestBuilder_OldFormat(t *testing.T) {
	dir := t.TempDir()
	pages := parsePages(t, "old.1:module=o:format=old")
	fake := &fakeResolver{
		infos: map[string]*domain.ParserInfo{
			"o": {Prog: "o", Usage: "usage: o", Description: "Old style"},
		},
	}

	builder := NewBuilder(BuilderOptions{Resolver: fake, Logger: testLogger(), Dir: dir})
	err := builder.Run(context.Background(), pages)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "old.1"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `.TH "o" "1"`)
}

func TestBuilder_PassesProgToResolver(t *testing.T) {
	dir := t.TempDir()
	pages := parsePages(t, "p.1:prog=myprog:module=m")
	fake := &fakeResolver{}

	builder := NewBuilder(BuilderOptions{Resolver: fake, Logger: testLogger(), Dir: dir})
	err := builder.Run(context.Background(), pages)
	require.NoError(t, err)

	require.Len(t, fake.targets, 1)
	assert.Equal(t, "myprog", fake.targets[0].Prog)
}
