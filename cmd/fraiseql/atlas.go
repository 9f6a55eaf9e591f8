package main

import (
	"context"
	"database/sql"
	"fmt"

	atlasmysql "ariga.io/atlas/sql/mysql"
	atlaspostgres "ariga.io/atlas/sql/postgres"
	atlassqlite "ariga.io/atlas/sql/sqlite"
	"ariga.io/atlas/sql/schema"

	"github.com/fraiseql/fraiseql"
)

// inspectSchema introspects every table and every view reachable from
// db and returns,
// per table/view name, the set of its column names. One atlas driver
// package per target, mirroring the CapabilityManifest/sqlgen "one
// dialect renderer per target" shape (§4.A) -- atlas is already a
// teacher dependency, repurposed here for IR-vs-database validation
// instead of migration planning (SPEC_FULL.md DOMAIN STACK).
func inspectSchema(ctx context.Context, target fraiseql.Target, db *sql.DB) (map[string]map[string]struct{}, error) {
	drv, err := openAtlasDriver(target, db)
	if err != nil {
		return nil, err
	}

	realm, err := drv.InspectRealm(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("inspect realm: %w", err)
	}

	out := make(map[string]map[string]struct{})
	for _, sch := range realm.Schemas {
		for _, table := range sch.Tables {
			cols := make(map[string]struct{}, len(table.Columns))
			for _, col := range table.Columns {
				cols[col.Name] = struct{}{}
			}
			out[table.Name] = cols
		}
		for _, view := range sch.Views {
			cols := make(map[string]struct{}, len(view.Columns))
			for _, col := range view.Columns {
				cols[col.Name] = struct{}{}
			}
			out[view.Name] = cols
		}
	}
	return out, nil
}

func openAtlasDriver(target fraiseql.Target, db *sql.DB) (interface {
	InspectRealm(ctx context.Context, opts *schema.InspectRealmOption) (*schema.Realm, error)
}, error) {
	switch target {
	case fraiseql.TargetPostgres:
		return atlaspostgres.Open(db)
	case fraiseql.TargetMySQL:
		return atlasmysql.Open(db)
	case fraiseql.TargetSQLite:
		return atlassqlite.Open(db)
	default:
		return nil, fmt.Errorf("check-db: no atlas driver for target %q", target)
	}
}
