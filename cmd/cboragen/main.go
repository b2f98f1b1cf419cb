package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgllghr/cboragen/diag"
	"github.com/dgllghr/cboragen/syntax"
)

func main() {
	var tokens bool
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "cboragen [options] <file>",
		Short: "parse a cboragen schema and print an AST summary or token dump",
		Args:  cobra.ExactArgs(1),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			os.Exit(run(args[0], tokens, noColor))
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&tokens, "tokens", false, "print one line per token instead of an AST summary")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "suppress ANSI color in diagnostic output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(path string, tokens, noColor bool) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if tokens {
		printTokens(src)
		return 0
	}

	result := syntax.Parse(src)
	if result.Diagnostics.HasErrors() {
		diag.Render(os.Stderr, src, path, result.Diagnostics, !noColor)
		return 1
	}
	if len(result.Diagnostics.Slice()) > 0 {
		diag.Render(os.Stderr, src, path, result.Diagnostics, !noColor)
	}

	printSchemaSummary(result.Schema)
	return 0
}

func printTokens(src []byte) {
	lx := syntax.NewLexer(src)
	diags := &diag.Bag{}
	for {
		tok := lx.Next(diags)
		fmt.Printf("%d..%d  %s", tok.Span.Start, tok.Span.End, tok.Kind)
		if hasText(tok.Kind) {
			fmt.Printf("  %q", tok.Span.Slice(src))
		}
		fmt.Println()
		if tok.Kind == syntax.T_EOF {
			break
		}
	}
}

func hasText(k syntax.TokenKind) bool {
	switch k {
	case syntax.T_INT_LIT, syntax.T_STRING_LIT, syntax.T_IDENT, syntax.T_TYPE_IDENT, syntax.T_DOC_COMMENT:
		return true
	default:
		return false
	}
}

func printSchemaSummary(schema *syntax.Schema) {
	fmt.Printf("imports: %d\n", len(schema.Imports))
	for _, imp := range schema.Imports {
		fmt.Printf("  %s = @import(%q)\n", imp.Namespace, imp.Path)
	}
	fmt.Printf("definitions: %d\n", len(schema.Definitions))
	for _, def := range schema.Definitions {
		fmt.Printf("  %s = %s\n", def.Name, def.Type.Kind())
	}
}
