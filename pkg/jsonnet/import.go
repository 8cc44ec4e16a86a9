package jsonnet

import (
	"os"
	"path/filepath"

	"github.com/cwbudde/go-jsonnet/internal/eval"
)

// FileImporter is the default Importer: it resolves relative to the
// importing file's directory first, then falls back to each configured
// search path in order, matching jsonnet's own import resolution order.
type FileImporter struct {
	SearchPaths []string
}

func NewFileImporter(searchPaths []string) *FileImporter {
	return &FileImporter{SearchPaths: searchPaths}
}

func (f *FileImporter) Import(fromPath, path string) (string, string, error) {
	if filepath.IsAbs(path) {
		contents, err := os.ReadFile(path)
		if err != nil {
			return "", "", err
		}
		return string(contents), path, nil
	}

	candidates := make([]string, 0, len(f.SearchPaths)+1)
	if fromPath != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(fromPath), path))
	} else {
		candidates = append(candidates, path)
	}
	for _, sp := range f.SearchPaths {
		candidates = append(candidates, filepath.Join(sp, path))
	}

	var firstErr error
	for _, c := range candidates {
		contents, err := os.ReadFile(c)
		if err == nil {
			return string(contents), c, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", "", firstErr
}

// codeImporter implements eval.CodeImporter by delegating path
// resolution to the VM's configured Importer and then running the
// resolved file through this VM's own compile pipeline, sharing the
// interner so cross-file name handles stay comparable.
type codeImporter struct {
	vm *VM
}

func (c *codeImporter) ImportCode(fromPath, path string) (*eval.CodeImport, string, error) {
	contents, resolved, err := c.vm.importer.Import(fromPath, path)
	if err != nil {
		return nil, "", err
	}
	expr, err := c.vm.compile(resolved, contents)
	if err != nil {
		return nil, "", err
	}
	return &eval.CodeImport{Expr: expr, Env: c.vm.rootEnv()}, resolved, nil
}
