package federation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/observability"
)

// HttpSubgraphStrategy resolves `_entities` by POSTing the standard
// federation entities query to another subgraph's GraphQL endpoint
// (§4.G: "HttpSubgraph"). It is the only strategy that retries and
// circuit-breaks, since it is the only one whose failures are ordinary
// network flakiness rather than a local programming error (§4.G, §7).
type HttpSubgraphStrategy struct {
	Client *http.Client

	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration

	RequestTimeout time.Duration

	mu       sync.Mutex
	breakers map[string]*circuitBreaker
}

var _ Strategy = (*HttpSubgraphStrategy)(nil)
var _ strategyFor = (*HttpSubgraphStrategy)(nil)

// NewHttpSubgraphStrategy builds a strategy posting to subgraph endpoints
// with sane retry/circuit-breaker defaults.
func NewHttpSubgraphStrategy(client *http.Client) *HttpSubgraphStrategy {
	if client == nil {
		client = http.DefaultClient
	}
	return &HttpSubgraphStrategy{
		Client:         client,
		MaxAttempts:    3,
		InitialDelay:   50 * time.Millisecond,
		MaxDelay:       2 * time.Second,
		RequestTimeout: 5 * time.Second,
		breakers:       make(map[string]*circuitBreaker),
	}
}

func (s *HttpSubgraphStrategy) StrategyKind() fraiseql.ResolutionStrategyKind {
	return fraiseql.StrategyHTTPSubgraph
}

type entitiesRequest struct {
	Query     string           `json:"query"`
	Variables entitiesVariable `json:"variables"`
}

type entitiesVariable struct {
	Representations []map[string]any `json:"representations"`
}

const entitiesQueryDoc = `query($representations: [_Any!]!) { _entities(representations: $representations) { __typename } }`

type entitiesResponse struct {
	Data struct {
		Entities []json.RawMessage `json:"_entities"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Resolve has no endpoint to post to and sends no request: it fails
// every representation with EntityNotResolvableError. ResolveAt performs
// the batched POST with retries and the circuit breaker.
func (s *HttpSubgraphStrategy) Resolve(ctx context.Context, typename string, keyFields []string, reps []Representation) ([][]byte, []error) {
	return nil, uniformError(len(reps), &fraiseql.EntityNotResolvableError{
		Typename: typename,
		Wrap:     fmt.Errorf("federation: HttpSubgraphStrategy requires an endpoint; use ResolveAt"),
	})
}

// ResolveAt is the endpoint-aware entry point callers (resolver.go,
// wired with CompiledFederation.Peer per type) actually use; Resolve
// exists only to satisfy the Strategy interface for uniform dispatch
// tables and always fails since no endpoint is implicit.
func (s *HttpSubgraphStrategy) ResolveAt(ctx context.Context, endpoint, typename string, keyFields []string, reps []Representation) ([][]byte, []error) {
	ctx, span := observability.StartSubgraphCall(ctx, endpoint, typename)
	var callErr error
	defer func() { observability.EndSubgraphCall(span, callErr) }()

	breaker := s.breakerFor(endpoint)
	if !breaker.Allow() {
		callErr = fmt.Errorf("federation: circuit open for %s", endpoint)
		return nil, uniformError(len(reps), &fraiseql.SubgraphUnreachableError{
			Subgraph: endpoint,
			Wrap:     callErr,
		})
	}

	representations := make([]map[string]any, len(reps))
	for i, rep := range reps {
		m := make(map[string]any, len(rep.Fields)+1)
		for k, v := range rep.Fields {
			m[k] = v
		}
		m["__typename"] = rep.Typename
		representations[i] = m
	}

	body, err := json.Marshal(entitiesRequest{
		Query:     entitiesQueryDoc,
		Variables: entitiesVariable{Representations: representations},
	})
	if err != nil {
		breaker.RecordFailure()
		callErr = err
		return nil, uniformError(len(reps), &fraiseql.EntityNotResolvableError{Typename: typename, Wrap: err})
	}

	var result entitiesResponse
	attemptErr := s.retry(ctx, endpoint, func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("federation: subgraph %s returned %d", endpoint, resp.StatusCode)
		}
		return json.Unmarshal(raw, &result)
	})

	if attemptErr != nil {
		breaker.RecordFailure()
		callErr = attemptErr
		return nil, uniformError(len(reps), &fraiseql.SubgraphUnreachableError{
			Subgraph: endpoint,
			Attempts: s.MaxAttempts,
			Wrap:     attemptErr,
		})
	}
	breaker.RecordSuccess()

	if len(result.Errors) > 0 && len(result.Data.Entities) == 0 {
		callErr = fmt.Errorf("federation: subgraph %s: %s", endpoint, result.Errors[0].Message)
		return nil, uniformError(len(reps), &fraiseql.EntityNotResolvableError{
			Typename: typename,
			Wrap:     callErr,
		})
	}

	rows := make([][]byte, len(reps))
	errs := make([]error, len(reps))
	for i := range reps {
		if i >= len(result.Data.Entities) || result.Data.Entities[i] == nil {
			errs[i] = &fraiseql.EntityNotResolvableError{Typename: typename, Index: i}
			continue
		}
		rows[i] = []byte(result.Data.Entities[i])
	}
	return rows, errs
}

// retry runs op with bounded exponential backoff, stopping early on
// ctx cancellation. No ecosystem backoff package is actually exercised
// anywhere in the retrieved dependency stack (only unrelated manifest
// files list cenkalti/backoff), so the policy is hand-rolled here
// rather than called through an unverified generic API (§7: retries are
// HttpSubgraph-only).
func (s *HttpSubgraphStrategy) retry(ctx context.Context, endpoint string, op func(context.Context) error) error {
	delay := s.InitialDelay
	var lastErr error
	for attempt := 0; attempt < s.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == s.MaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > s.MaxDelay {
			delay = s.MaxDelay
		}
	}
	return lastErr
}

func (s *HttpSubgraphStrategy) breakerFor(endpoint string) *circuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.breakers[endpoint]
	if !ok {
		b = newCircuitBreaker(5, 30*time.Second)
		s.breakers[endpoint] = b
	}
	return b
}
