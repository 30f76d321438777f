package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/render"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	runExpression     bool
	runPrint          bool
	runData           []string
	runMaxStackHeight int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run lisp code",
	Long: `Run lisp code supplied via the command line or a file.  Programs run in
order in a single environment, so later programs see the definitions of
earlier ones.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcs, err := runReadSources(args)
		if err != nil {
			return err
		}
		config := []lisp.Config{
			lisp.WithStdout(cmd.OutOrStdout()),
			lisp.WithStderr(cmd.ErrOrStderr()),
		}
		if cmd.Flags().Changed("max-stack-height") {
			config = append(config, lisp.WithMaximumStackHeight(runMaxStackHeight))
		}
		for _, path := range runData {
			bindings, err := readDataFile(path)
			if err != nil {
				return err
			}
			config = append(config, lisp.WithBindings(bindings))
		}
		env, err := render.NewEnv(config...)
		if err != nil {
			return err
		}
		return runSources(env, srcs, runPrint)
	},
}

type source struct {
	name string
	text []byte
}

func runReadSources(args []string) ([]source, error) {
	srcs := make([]source, len(args))
	if runExpression {
		for i := range args {
			srcs[i] = source{name: fmt.Sprintf("<expression %d>", i+1), text: []byte(args[i])}
		}
		return srcs, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		srcs[i] = source{name: path, text: b}
	}
	return srcs, nil
}

// runSources evaluates each source in env.  When print is true the value
// of each source is written to the environment's stdout.  The first error
// is reported on the environment's stderr along with its stack trace.
func runSources(env *lisp.LEnv, srcs []source, print bool) error {
	stdout := env.Runtime.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	for _, src := range srcs {
		v := env.Load(src.name, bytes.NewReader(src.text))
		if v.Type == lisp.LError {
			if env.Runtime.Stderr != nil {
				if stack := v.CallStack(); stack != nil && stack.Height() > 0 {
					_, _ = stack.DebugPrint(env.Runtime.Stderr)
				}
			}
			return lisp.GoError(v)
		}
		if print {
			fmt.Fprintln(stdout, v)
		}
	}
	return nil
}

// readDataFile decodes a YAML mapping from path.  Each top-level key is
// returned as a binding name.
func readDataFile(path string) (map[string]interface{}, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bindings map[string]interface{}
	err = yaml.Unmarshal(b, &bindings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bindings, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().StringArrayVar(&runData, "data", nil,
		"YAML file whose top-level keys are bound in the environment (repeatable)")
	runCmd.Flags().IntVar(&runMaxStackHeight, "max-stack-height", lisp.DefaultMaxHeight,
		"Maximum number of nested function calls")
}
