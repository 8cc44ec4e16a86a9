package stdlib

import (
	"github.com/cwbudde/go-jsonnet/internal/errors"
	"github.com/cwbudde/go-jsonnet/internal/eval"
	"github.com/cwbudde/go-jsonnet/internal/manifest"
)

func builtinManifestJSONEx(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	opts := manifest.MultilineOptions()
	if len(args) > 1 {
		indent, err := argStr(ev, args, 1, "manifestJsonEx")
		if err != nil {
			return nil, err
		}
		opts.Indent = indent
	}
	if len(args) > 2 {
		nl, err := argStr(ev, args, 2, "manifestJsonEx")
		if err != nil {
			return nil, err
		}
		opts.Newline = nl
	}
	if len(args) > 3 {
		kv, err := argStr(ev, args, 3, "manifestJsonEx")
		if err != nil {
			return nil, err
		}
		opts.KeyValSep = kv
	}
	if opts.Indent == "" {
		s, merr := manifest.ManifestJSONCompact(ev, v)
		if merr != nil {
			return nil, merr
		}
		return eval.Str{V: s}, nil
	}
	s, merr := manifest.ManifestJSON(ev, v, opts)
	if merr != nil {
		return nil, merr
	}
	return eval.Str{V: s}, nil
}

func builtinManifestPython(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	s, merr := manifest.ManifestPython(ev, v)
	if merr != nil {
		return nil, merr
	}
	return eval.Str{V: s}, nil
}

func yamlOptsFromArgs(ev *eval.Evaluator, args []*eval.Thunk, fn string, startAt int) (manifest.YAMLOptions, *errors.EvalError) {
	opts := manifest.YAMLOptions{IndentArrayInObject: false, QuoteKeys: true}
	if len(args) > startAt {
		v, err := argBool(ev, args, startAt, fn)
		if err != nil {
			return opts, err
		}
		opts.IndentArrayInObject = v
	}
	return opts, nil
}

func builtinManifestYAMLDoc(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	opts, err := yamlOptsFromArgs(ev, args, "manifestYamlDoc", 1)
	if err != nil {
		return nil, err
	}
	if len(args) > 2 {
		qk, err := argBool(ev, args, 2, "manifestYamlDoc")
		if err != nil {
			return nil, err
		}
		opts.QuoteKeys = qk
	}
	s, merr := manifest.ManifestYAMLDoc(ev, v, opts)
	if merr != nil {
		return nil, merr
	}
	return eval.Str{V: s}, nil
}

func builtinManifestYAMLStream(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	opts, err := yamlOptsFromArgs(ev, args, "manifestYamlStream", 1)
	if err != nil {
		return nil, err
	}
	docEnd := false
	if len(args) > 2 {
		de, err := argBool(ev, args, 2, "manifestYamlStream")
		if err != nil {
			return nil, err
		}
		docEnd = de
	}
	if len(args) > 3 {
		qk, err := argBool(ev, args, 3, "manifestYamlStream")
		if err != nil {
			return nil, err
		}
		opts.QuoteKeys = qk
	}
	s, merr := manifest.ManifestYAMLStream(ev, v, opts, docEnd)
	if merr != nil {
		return nil, merr
	}
	return eval.Str{V: s}, nil
}

func builtinManifestTOML(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	s, merr := manifest.ManifestTOML(ev, v)
	if merr != nil {
		return nil, merr
	}
	return eval.Str{V: s}, nil
}

func builtinManifestINI(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	s, merr := manifest.ManifestINI(ev, v)
	if merr != nil {
		return nil, merr
	}
	return eval.Str{V: s}, nil
}

func builtinManifestXMLJsonml(ev *eval.Evaluator, args []*eval.Thunk) (eval.Value, *errors.EvalError) {
	v, err := arg(ev, args, 0)
	if err != nil {
		return nil, err
	}
	s, merr := manifest.ManifestXMLJsonml(ev, v)
	if merr != nil {
		return nil, merr
	}
	return eval.Str{V: s}, nil
}
