package jsonnet

import (
	"fmt"

	"github.com/cwbudde/go-jsonnet/internal/eval"
	"github.com/cwbudde/go-jsonnet/internal/manifest"
)

// ManifestJSON renders v as indented JSON, the default `jsonnet` CLI
// output format.
func (vm *VM) ManifestJSON(v Value) (string, error) {
	s, err := manifest.ManifestJSON(vm.ev, v, manifest.MultilineOptions())
	if err != nil {
		return "", err
	}
	return s, nil
}

// ManifestJSONCompact renders v as single-line JSON (std.manifestJsonEx
// with an empty indent).
func (vm *VM) ManifestJSONCompact(v Value) (string, error) {
	s, err := manifest.ManifestJSONCompact(vm.ev, v)
	if err != nil {
		return "", err
	}
	return s, nil
}

// ManifestYAML renders v as a single YAML document (the `-y` CLI flag).
func (vm *VM) ManifestYAML(v Value) (string, error) {
	s, err := manifest.ManifestYAMLDoc(vm.ev, v, manifest.YAMLOptions{QuoteKeys: true})
	if err != nil {
		return "", err
	}
	return s, nil
}

// ManifestString implements the `-S` CLI flag: the top-level value must
// be a string, returned verbatim with no quoting.
func (vm *VM) ManifestString(v Value) (string, error) {
	s, ok := v.(eval.Str)
	if !ok {
		return "", fmt.Errorf("expected a string result, got %s", eval.TypeName(v))
	}
	return s.V, nil
}
