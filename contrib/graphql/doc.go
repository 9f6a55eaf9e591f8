// Package graphql is the gqlgen integration contrib: it reads/writes a
// gqlgen.yml and fills in the type-mapping entries a CompiledSchema
// implies, so a caller's own resolver layer can run gqlgen's generator
// against compiler/codegen's emitted binding structs without hand-editing
// config.
//
// Usage:
//
//	cfg, err := graphql.LoadGQLGenConfig("./gqlgen.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.BindCompiledSchema(compiledSchema, "myapp/gen/bindings", "./schema.graphql")
//	if err := graphql.SaveGQLGenConfig("./gqlgen.yml", cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// The HTTP/resolver layer gqlgen itself generates is out of scope for
// this module (spec.md §1: "HTTP framework bindings... the GraphQL
// parser proper" are external collaborators); this package only keeps
// the config in sync with the compiled artifact.
package graphql
