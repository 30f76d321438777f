package cmd

import (
	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/repl"
	"github.com/spf13/cobra"
)

var (
	replPrompt string
	replData   []string
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var config []lisp.Config
		for _, path := range replData {
			bindings, err := readDataFile(path)
			if err != nil {
				return err
			}
			config = append(config, lisp.WithBindings(bindings))
		}
		return repl.RunRepl(replPrompt, config...)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replPrompt, "prompt", "> ",
		"Prompt displayed when waiting for input")
	replCmd.Flags().StringArrayVar(&replData, "data", nil,
		"YAML file whose top-level keys are bound in the environment (repeatable)")
}
