package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/go-jsonnet/pkg/jsonnet"
	"github.com/spf13/cobra"
)

var (
	evalExpr    string
	jpath       []string
	asString    bool
	asYAML      bool
	extStrArgs  []string
	extCodeArgs []string
	tlaStrArgs  []string
	tlaCodeArgs []string
	multiDir    string
)

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Evaluate a Jsonnet file or expression",
	Long: `Evaluate a Jsonnet program from a file or inline expression and
manifest the result as JSON (default), YAML (-y), or a raw string (-S).

Examples:
  jsonnet eval config.jsonnet
  jsonnet eval -e '1 + 2'
  jsonnet eval -y deployment.jsonnet
  jsonnet eval --ext-str env=prod config.jsonnet`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalExpr, "exec", "e", "", "evaluate inline code instead of reading from file")
	evalCmd.Flags().StringArrayVarP(&jpath, "jpath", "J", nil, "additional library search path (repeatable)")
	evalCmd.Flags().BoolVarP(&asString, "string", "S", false, "expect a string result and output it verbatim")
	evalCmd.Flags().BoolVarP(&asYAML, "yaml", "y", false, "output as a YAML document instead of JSON")
	evalCmd.Flags().StringArrayVar(&extStrArgs, "ext-str", nil, "external variable as a string, name=value (repeatable)")
	evalCmd.Flags().StringArrayVar(&extCodeArgs, "ext-code", nil, "external variable as Jsonnet code, name=code (repeatable)")
	evalCmd.Flags().StringArrayVar(&tlaStrArgs, "tla-str", nil, "top-level argument as a string, name=value (repeatable)")
	evalCmd.Flags().StringArrayVar(&tlaCodeArgs, "tla-code", nil, "top-level argument as Jsonnet code, name=code (repeatable)")
	evalCmd.Flags().StringVarP(&multiDir, "multi", "m", "", "write each field of a top-level object to <dir>/<field>")
}

func splitNameValue(s, flag string) (string, string, error) {
	idx := strings.IndexByte(s, '=')
	if idx < 0 {
		return "", "", fmt.Errorf("%s: expected name=value, got %q", flag, s)
	}
	return s[:idx], s[idx+1:], nil
}

func runEval(_ *cobra.Command, args []string) error {
	var opts []jsonnet.Option
	opts = append(opts, jsonnet.WithSearchPaths(jpath))

	for _, kv := range extStrArgs {
		name, value, err := splitNameValue(kv, "--ext-str")
		if err != nil {
			return err
		}
		opts = append(opts, jsonnet.WithExtVar(name, value))
	}
	for _, kv := range extCodeArgs {
		name, code, err := splitNameValue(kv, "--ext-code")
		if err != nil {
			return err
		}
		opts = append(opts, jsonnet.WithExtVarCode(name, code))
	}

	vm, err := jsonnet.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	var filename, src string
	if evalExpr != "" {
		filename, src = "<exec>", evalExpr
	} else if len(args) == 1 {
		filename = args[0]
		contents, rerr := os.ReadFile(filename)
		if rerr != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, rerr)
		}
		src = string(contents)
	} else {
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Evaluating %s\n", filename)
	}

	value, everr := vm.EvaluateSnippet(filename, src)
	if everr != nil {
		exitWithError("%s", everr)
	}

	if fn, ok := value.(*jsonnet.Function); ok {
		tla := map[string]jsonnet.Value{}
		for _, kv := range tlaStrArgs {
			name, v, serr := splitNameValue(kv, "--tla-str")
			if serr != nil {
				return serr
			}
			tla[name] = jsonnet.Str{V: v}
		}
		for _, kv := range tlaCodeArgs {
			name, code, serr := splitNameValue(kv, "--tla-code")
			if serr != nil {
				return serr
			}
			v, cerr := vm.EvaluateSnippet("<tla-code:"+name+">", code)
			if cerr != nil {
				return cerr
			}
			tla[name] = v
		}
		value, everr = vm.EvaluateCall(fn, tla)
		if everr != nil {
			exitWithError("%s", everr)
		}
	}

	if multiDir != "" {
		return writeMulti(vm, value, multiDir, asYAML)
	}

	var out string
	switch {
	case asString:
		out, err = vm.ManifestString(value)
	case asYAML:
		out, err = vm.ManifestYAML(value)
	default:
		out, err = vm.ManifestJSON(value)
	}
	if err != nil {
		exitWithError("%s", err)
	}
	fmt.Println(out)
	return nil
}

func writeMulti(vm *jsonnet.VM, value jsonnet.Value, dir string, asYAML bool) error {
	obj, ok := value.(*jsonnet.Object)
	if !ok {
		return fmt.Errorf("-m requires the top-level value to be an object")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range vm.ObjectFieldNames(obj, false) {
		field, ferr := vm.ObjectField(obj, name)
		if ferr != nil {
			return ferr
		}
		var out string
		var err error
		if asYAML {
			out, err = vm.ManifestYAML(field)
		} else {
			out, err = vm.ManifestJSON(field)
		}
		if err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if werr := os.WriteFile(path, []byte(out+"\n"), 0o644); werr != nil {
			return werr
		}
	}
	return nil
}
