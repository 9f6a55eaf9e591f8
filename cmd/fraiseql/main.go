// Command fraiseql is the Schema Compiler's CLI surface (§6): it turns a
// Schema IR document into a content-hashed CompiledSchema artifact.
// Grounded on hanpama-protograph/cmd/protograph's flag.NewFlagSet
// subcommand dispatch -- the only CLI entrypoint anywhere in the
// retrieved pack with more than one subcommand, and the same repo whose
// internal/otel this module's observability package already adapts.
package main

import (
	"bytes"
	"fmt"
	"os"
)

const rootUsage = `fraiseql — GraphQL-over-relational-database schema compiler

USAGE:
  fraiseql <command> [flags]

COMMANDS:
  compile    Compile a Schema IR document into a CompiledSchema artifact
  help       Show help for any command
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "compile":
		return cmdCompile(rest)
	case "help":
		return cmdHelp(rest)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "compile":
		fmt.Print(compileUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

// silenceFlagOutput matches the teacher's own pattern of swallowing the
// flag package's automatic usage printer so each subcommand can print
// its own, more specific usage text on parse failure.
func silenceFlagOutput() *bytes.Buffer {
	return new(bytes.Buffer)
}
