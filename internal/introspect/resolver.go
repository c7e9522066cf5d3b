// Package introspect resolves parser descriptions by running a small
// helper under the project's Python interpreter. The helper is embedded
// in the binary and piped to the interpreter on stdin, so nothing has to
// be installed into the target environment.
package introspect

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/quantmind-br/manbuild-go/internal/domain"
)

//go:embed introspect.py
var script string

const (
	// DefaultPython is the interpreter used when none is configured.
	DefaultPython = "python3"
	// PythonEnv names the environment variable that overrides the
	// interpreter binary.
	PythonEnv = "MANBUILD_PYTHON"
)

// PythonResolver implements domain.Resolver by piping the embedded
// helper into a Python interpreter and decoding the JSON it prints.
type PythonResolver struct {
	// Python is the interpreter binary; DefaultPython when empty.
	Python string
	// Dir is the helper's working directory, so pyfile paths and module
	// imports resolve relative to the project.
	Dir string
}

// NewPythonResolver returns a resolver rooted at the project directory,
// honoring the MANBUILD_PYTHON interpreter override.
func NewPythonResolver(dir string) *PythonResolver {
	python := os.Getenv(PythonEnv)
	if python == "" {
		python = DefaultPython
	}
	return &PythonResolver{Python: python, Dir: dir}
}

// Resolve runs the helper for one target and decodes its output.
func (r *PythonResolver) Resolve(ctx context.Context, target domain.Target) (*domain.ParserInfo, error) {
	python := r.Python
	if python == "" {
		python = DefaultPython
	}

	cmd := exec.CommandContext(ctx, python, "-",
		target.ImportType, target.ImportFrom, target.ObjName, target.ObjType, target.Prog)
	cmd.Dir = r.Dir
	cmd.Stdin = strings.NewReader(script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &ResolveError{Target: target, Stderr: stderr.String(), Err: err}
	}
	info, err := decode(stdout.Bytes())
	if err != nil {
		return nil, &ResolveError{Target: target, Err: err}
	}
	return info, nil
}

func decode(data []byte) (*domain.ParserInfo, error) {
	var info domain.ParserInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode parser description: %w", err)
	}
	if info.Prog == "" {
		return nil, errors.New("parser description has no prog")
	}
	return &info, nil
}
