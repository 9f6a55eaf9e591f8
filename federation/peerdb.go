package federation

import (
	"context"
	"sync"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/compiler"
	"github.com/fraiseql/fraiseql/compiler/sqlgen"
	sqldriver "github.com/fraiseql/fraiseql/dialect/sql"
)

// PeerDatabaseStrategy resolves `_entities` by querying another
// service's database directly -- no HTTP hop, at the cost of the two
// services sharing network reach to each other's database (§4.G:
// "PeerDatabase"). One Driver is opened per distinct peer DSN and
// reused across calls.
type PeerDatabaseStrategy struct {
	Schema *compiler.CompiledSchema

	mu      sync.Mutex
	drivers map[string]*sqldriver.Driver
	open    func(dsn string) (*sqldriver.Driver, error)
}

var _ Strategy = (*PeerDatabaseStrategy)(nil)
var _ strategyFor = (*PeerDatabaseStrategy)(nil)

// NewPeerDatabaseStrategy builds a strategy that opens peer connections
// lazily via open, caching one Driver per DSN.
func NewPeerDatabaseStrategy(schema *compiler.CompiledSchema, open func(dsn string) (*sqldriver.Driver, error)) *PeerDatabaseStrategy {
	return &PeerDatabaseStrategy{
		Schema:  schema,
		drivers: make(map[string]*sqldriver.Driver),
		open:    open,
	}
}

func (s *PeerDatabaseStrategy) StrategyKind() fraiseql.ResolutionStrategyKind {
	return fraiseql.StrategyPeerDatabase
}

func (s *PeerDatabaseStrategy) Resolve(ctx context.Context, typename string, keyFields []string, reps []Representation) ([][]byte, []error) {
	ct, ok := s.Schema.Lookup(typename)
	if !ok {
		return nil, uniformError(len(reps), &fraiseql.EntityNotResolvableError{
			Typename: typename,
		})
	}

	driver, dialect, err := s.driverFor(ct.Federation.Peer)
	if err != nil {
		return nil, uniformError(len(reps), &fraiseql.EntityNotResolvableError{Typename: typename, Wrap: err})
	}

	return resolveViaQuery(ctx, driver, dialect, typename, keyFields, reps, ct)
}

func (s *PeerDatabaseStrategy) driverFor(dsn string) (*sqldriver.Driver, sqlgen.Dialect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	driver, ok := s.drivers[dsn]
	if !ok {
		var err error
		driver, err = s.open(dsn)
		if err != nil {
			return nil, nil, err
		}
		s.drivers[dsn] = driver
	}

	dialect, err := sqlgen.ForTarget(s.Schema.Target)
	if err != nil {
		return nil, nil, err
	}
	return driver, dialect, nil
}
