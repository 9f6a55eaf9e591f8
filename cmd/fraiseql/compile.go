package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
	"golang.org/x/tools/imports"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/compiler"
	"github.com/fraiseql/fraiseql/compiler/codegen"
	"github.com/fraiseql/fraiseql/compiler/load"
	"github.com/fraiseql/fraiseql/ir"
)

const compileUsage = `compile FLAGS:
  fraiseql compile <schema-ir.json> --target <id> -o <out.compiled>

  -target <id>    Compile target: postgres, mysql, or sqlite (required)
  -o <path>        Write the CompiledSchema artifact here (required unless -check)
  -check           Validate the Schema IR document without emitting an artifact
  -check-db <dsn>  Additionally confirm every bound view/column named in the
                   Schema IR actually exists in the live database at dsn,
                   via ariga.io/atlas schema inspection
  -emit-go <pkg>   Also render Go binding structs for the CompiledSchema's
                   types (compiler/codegen), written to <pkg>/bindings.go
`

func cmdCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(silenceFlagOutput())

	var targetFlag, outPath, checkDBDSN, emitGoPkg string
	var checkOnly bool
	fs.StringVar(&targetFlag, "target", "", "compile target: postgres, mysql, sqlite")
	fs.StringVar(&outPath, "o", "", "output path for the CompiledSchema artifact")
	fs.BoolVar(&checkOnly, "check", false, "validate without emitting")
	fs.StringVar(&checkDBDSN, "check-db", "", "live database DSN to validate bound views/columns against")
	fs.StringVar(&emitGoPkg, "emit-go", "", "also emit Go binding structs into this package directory")

	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileUsage)
		return err
	}

	rest := fs.Args()
	if len(rest) > 1 {
		// Flags may also follow the positional schema-ir argument, as in
		// the usage line above.
		if err := fs.Parse(rest[1:]); err != nil {
			fmt.Fprint(os.Stderr, compileUsage)
			return err
		}
		rest = append([]string{rest[0]}, fs.Args()...)
	}
	if len(rest) != 1 {
		fmt.Fprint(os.Stderr, compileUsage)
		return fmt.Errorf("expected exactly one schema-ir argument, got %d", len(rest))
	}
	schemaPath := rest[0]

	target := fraiseql.Target(targetFlag)
	switch target {
	case fraiseql.TargetPostgres, fraiseql.TargetMySQL, fraiseql.TargetSQLite:
	default:
		fmt.Fprint(os.Stderr, compileUsage)
		return fmt.Errorf("-target must be one of postgres, mysql, sqlite, got %q", targetFlag)
	}

	if !checkOnly && outPath == "" {
		fmt.Fprint(os.Stderr, compileUsage)
		return fmt.Errorf("-o is required unless -check is set")
	}

	doc, err := load.Document(schemaPath)
	if err != nil {
		return err
	}

	schema, err := ir.Build(doc)
	if err != nil {
		return fmt.Errorf("fraiseql: schema IR invalid: %w", err)
	}

	if checkDBDSN != "" {
		if err := checkDatabase(target, checkDBDSN, schema); err != nil {
			return err
		}
	}

	compiled, err := compiler.Compile(schema, target)
	if err != nil {
		return diagnose(err)
	}

	if checkOnly {
		fmt.Printf("fraiseql: schema IR valid for target %q (would hash to %s)\n", target, compiled.Hash)
		return nil
	}

	data, err := compiler.Marshal(compiled)
	if err != nil {
		return fmt.Errorf("fraiseql: marshal compiled schema: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("fraiseql: write %s: %w", outPath, err)
	}
	fmt.Printf("fraiseql: wrote %s (hash %s)\n", outPath, compiled.Hash)

	if emitGoPkg != "" {
		if err := emitGo(compiled, emitGoPkg); err != nil {
			return err
		}
	}

	return nil
}

// diagnose re-prints a CompileError with its suggestion list, matching
// §4.C's "suggestion list from the target's manifest" requirement for
// UnsupportedOperator failures; every other error passes through with
// its own Error() text, which already carries enough context.
func diagnose(err error) error {
	var unsupported *fraiseql.UnsupportedOperatorError
	if asUnsupportedOperator(err, &unsupported) {
		fmt.Fprintf(os.Stderr, "fraiseql: %v\n", unsupported)
		if len(unsupported.Suggestions) > 0 {
			fmt.Fprintf(os.Stderr, "  did you mean one of: %v?\n", unsupported.Suggestions)
		}
	}
	return fmt.Errorf("fraiseql: compile failed: %w", err)
}

func asUnsupportedOperator(err error, target **fraiseql.UnsupportedOperatorError) bool {
	for err != nil {
		if u, ok := err.(*fraiseql.UnsupportedOperatorError); ok {
			*target = u
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

// checkDatabase confirms every type's bound view and its JSONB/primary-
// key columns actually exist in the live database at dsn, via atlas
// schema inspection. This is strictly additional to compiler.Compile's
// own structural validation: Compile never opens a connection (§4.C),
// so a bound view renamed or dropped out from under the Schema IR would
// otherwise only surface as a runtime SqlFailure at the first request.
func checkDatabase(target fraiseql.Target, dsn string, schema *ir.Schema) error {
	db, err := sql.Open(driverName(target), dsn)
	if err != nil {
		return fmt.Errorf("fraiseql: check-db: open %q: %w", target, err)
	}
	defer db.Close()

	inspected, err := inspectSchema(context.Background(), target, db)
	if err != nil {
		return fmt.Errorf("fraiseql: check-db: inspect schema: %w", err)
	}

	var missing []string
	for _, name := range schema.TypeNames() {
		typeDef := schema.Types[name]
		if typeDef.BoundSource == nil {
			continue
		}
		table, ok := inspected[typeDef.BoundSource.View]
		if !ok {
			missing = append(missing, fmt.Sprintf("%s: view %q not found", name, typeDef.BoundSource.View))
			continue
		}
		if _, ok := table[typeDef.BoundSource.JSONBColumn]; !ok {
			missing = append(missing, fmt.Sprintf("%s: column %q not found on view %q", name, typeDef.BoundSource.JSONBColumn, typeDef.BoundSource.View))
		}
		for _, pk := range typeDef.BoundSource.PrimaryKeyColumns {
			if _, ok := table[pk]; !ok {
				missing = append(missing, fmt.Sprintf("%s: primary key column %q not found on view %q", name, pk, typeDef.BoundSource.View))
			}
		}
	}
	if len(missing) > 0 {
		for _, m := range missing {
			fmt.Fprintf(os.Stderr, "fraiseql: check-db: %s\n", m)
		}
		return fmt.Errorf("fraiseql: check-db: %d binding(s) missing in the live database", len(missing))
	}
	return nil
}

func driverName(target fraiseql.Target) string {
	switch target {
	case fraiseql.TargetPostgres:
		return "postgres"
	case fraiseql.TargetMySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

func emitGo(compiled *compiler.CompiledSchema, pkgDir string) error {
	pkgName := pkgBaseName(pkgDir)
	src, err := codegen.Emit(compiled, pkgName)
	if err != nil {
		return fmt.Errorf("fraiseql: emit-go: %w", err)
	}
	outFile := pkgDir + "/bindings.go"
	formatted, err := imports.Process(outFile, []byte(src), nil)
	if err != nil {
		// jennifer's own output is already gofmt-clean; imports.Process
		// only fails here if a generated identifier is invalid Go, which
		// is a codegen bug worth surfacing rather than masking.
		return fmt.Errorf("fraiseql: emit-go: format %s: %w", outFile, err)
	}
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return fmt.Errorf("fraiseql: emit-go: %w", err)
	}
	if err := os.WriteFile(outFile, formatted, 0o644); err != nil {
		return fmt.Errorf("fraiseql: emit-go: write %s: %w", outFile, err)
	}
	fmt.Printf("fraiseql: wrote %s\n", outFile)
	return nil
}

func pkgBaseName(pkgDir string) string {
	name := pkgDir
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[i+1:]
		}
	}
	return name
}
