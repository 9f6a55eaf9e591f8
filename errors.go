// Package fraiseql is the root package of the FraiseQL schema compiler and
// execution pipeline. It re-exports the sealed error taxonomy (this file),
// the APQ cache contract (cache.go), and the top-level Config used to wire
// the compiler, executor, and federation resolver together.
package fraiseql

import (
	"errors"
	"fmt"
)

// Sentinel decision values for the sealed error variants below. Callers
// should prefer errors.Is/errors.As over type switches; every concrete
// error type wraps or compares equal to one of these through Is.
var (
	// ErrUnsupportedOperator is returned when a WhereInputType would expose
	// a filter operator the target's CapabilityManifest does not declare.
	ErrUnsupportedOperator = errors.New("fraiseql: operator not supported for target")

	// ErrSubgraphUnreachable is returned when an HttpSubgraph strategy
	// exhausts its retry budget without a response.
	ErrSubgraphUnreachable = errors.New("fraiseql: subgraph unreachable")

	// ErrRequiresDependencyMissing is returned when a @requires field is
	// absent from a representation and cannot be resolved locally.
	ErrRequiresDependencyMissing = errors.New("fraiseql: @requires dependency missing")

	// ErrTimeout is returned when a DB acquisition, DB query, peer HTTP
	// call, or the full request deadline expires.
	ErrTimeout = errors.New("fraiseql: operation timed out")

	// ErrCancelled is returned when the request's context was cancelled.
	ErrCancelled = errors.New("fraiseql: request cancelled")

	// ErrPermissionDenied is returned by row-filter / field-level
	// authorization when a policy rule denies an operation.
	ErrPermissionDenied = errors.New("fraiseql: permission denied")

	// ErrRateLimited is returned when a request exceeds a configured
	// rate-limit threshold.
	ErrRateLimited = errors.New("fraiseql: rate limited")
)

// CompileError is the sealed variant family for §7 compile-time errors.
// Concrete variants (UnsupportedOperatorError, UnknownTypeError, ...) all
// implement this interface so a diagnostic printer can treat them uniformly
// while still allowing errors.As to recover the specific variant.
type CompileError interface {
	error
	// Diagnostic returns a human-readable message including any suggestion
	// list, suitable for CLI output.
	Diagnostic() string
}

// UnsupportedOperatorError is returned when the compiler's capability
// resolution phase finds a declared filter that has no corresponding
// CapabilityManifest entry for the compile target.
type UnsupportedOperatorError struct {
	Target       string
	ScalarFamily string
	Operator     string
	Suggestions  []string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("fraiseql: unsupported operator %q for target %q (scalar family %q)",
		e.Operator, e.Target, e.ScalarFamily)
}

// Is reports whether target is ErrUnsupportedOperator.
func (e *UnsupportedOperatorError) Is(target error) bool {
	return target == ErrUnsupportedOperator
}

// Diagnostic renders the error plus its suggestion list.
func (e *UnsupportedOperatorError) Diagnostic() string {
	if len(e.Suggestions) == 0 {
		return e.Error()
	}
	return fmt.Sprintf("%s; available operators: %v", e.Error(), e.Suggestions)
}

// UnknownTypeError is returned when a type reference in the Schema IR
// (a field type, a federation key, an Arrow foreign key target) does not
// resolve to a declared TypeDef.
type UnknownTypeError struct {
	Reference string
	Context   string // e.g. "field User.org", "arrow batch order_items.order_id"
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("fraiseql: unknown type %q referenced by %s", e.Reference, e.Context)
}

func (e *UnknownTypeError) Diagnostic() string { return e.Error() }

// InvalidFederationError is returned for federation validation failures:
// @external outside an @extends type, cyclic @extends, @requires/@provides
// naming a field absent from the authoritative subgraph.
type InvalidFederationError struct {
	TypeName string
	Reason   string
}

func (e *InvalidFederationError) Error() string {
	return fmt.Sprintf("fraiseql: invalid federation metadata on %q: %s", e.TypeName, e.Reason)
}

func (e *InvalidFederationError) Diagnostic() string { return e.Error() }

// UnrepresentableArrowTypeError is returned when an Arrow projection field
// has no representable Arrow type, exceeds the two-hop depth limit, or
// nests an array within a batch.
type UnrepresentableArrowTypeError struct {
	Batch  string
	Field  string
	Reason string
}

func (e *UnrepresentableArrowTypeError) Error() string {
	return fmt.Sprintf("fraiseql: arrow batch %q field %q is unrepresentable: %s", e.Batch, e.Field, e.Reason)
}

func (e *UnrepresentableArrowTypeError) Diagnostic() string { return e.Error() }

// ViewBindingMissingError is returned when a bound type has neither a
// local view binding nor a federation strategy entry.
type ViewBindingMissingError struct {
	TypeName string
}

func (e *ViewBindingMissingError) Error() string {
	return fmt.Sprintf("fraiseql: type %q has no view binding and no federation strategy", e.TypeName)
}

func (e *ViewBindingMissingError) Diagnostic() string { return e.Error() }

// ExecutionError is the sealed variant family for §7 runtime execution
// errors (as opposed to compile-time errors above).
type ExecutionError interface {
	error
	// Code returns the stable, machine-readable extensions.code value.
	Code() string
}

// SqlFailureError wraps a database error with a classified extensions.code
// (see dialect/sql/sqlgraph's constraint classification, which this
// package's executor consults before constructing the error).
type SqlFailureError struct {
	Path  []any
	Code_ string // e.g. "SQL_FAILURE", "CONSTRAINT_UNIQUE", "CONSTRAINT_FOREIGN_KEY", "CONSTRAINT_CHECK"
	Wrap  error
}

func (e *SqlFailureError) Error() string {
	return fmt.Sprintf("fraiseql: sql failure (%s): %v", e.Code(), e.Wrap)
}

func (e *SqlFailureError) Unwrap() error { return e.Wrap }

// Code implements ExecutionError, defaulting to "SQL_FAILURE" when no
// specific constraint classification was made.
func (e *SqlFailureError) Code() string {
	if e.Code_ == "" {
		return "SQL_FAILURE"
	}
	return e.Code_
}

// TimeoutError is returned when any independently-deadlined operation
// (DB acquisition, DB query, peer HTTP call, full request) expires.
type TimeoutError struct {
	Path    []any
	Stage   string // "pool_acquire", "db_query", "peer_http", "request"
	Timeout string // formatted duration, for diagnostics
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fraiseql: timeout during %s after %s", e.Stage, e.Timeout)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

func (e *TimeoutError) Code() string { return "TIMEOUT" }

// CancelledError is returned when the request's context was cancelled
// before the operation completed.
type CancelledError struct {
	Path []any
}

func (e *CancelledError) Error() string    { return "fraiseql: request cancelled" }
func (e *CancelledError) Is(target error) bool { return target == ErrCancelled }
func (e *CancelledError) Code() string     { return "CANCELLED" }

// FederationError is the sealed variant family for §7 federation errors.
type FederationError interface {
	error
	Code() string
}

// SubgraphUnreachableError is returned when an HttpSubgraph strategy
// exhausts its retry budget without a response.
type SubgraphUnreachableError struct {
	Subgraph string
	Attempts int
	Wrap     error
}

func (e *SubgraphUnreachableError) Error() string {
	return fmt.Sprintf("fraiseql: subgraph %q unreachable after %d attempts: %v", e.Subgraph, e.Attempts, e.Wrap)
}

func (e *SubgraphUnreachableError) Unwrap() error     { return e.Wrap }
func (e *SubgraphUnreachableError) Is(target error) bool { return target == ErrSubgraphUnreachable }
func (e *SubgraphUnreachableError) Code() string      { return "SUBGRAPH_UNREACHABLE" }

// EntityNotResolvableError is returned for a single `_entities` position
// whose representation could not be resolved by any strategy. The caller
// (federation.ResolveEntities) surfaces `null` at Index and attaches this
// error at `path: ["_entities", Index]`.
type EntityNotResolvableError struct {
	Typename string
	Index    int
	Wrap     error
}

func (e *EntityNotResolvableError) Error() string {
	return fmt.Sprintf("fraiseql: entity %q at index %d not resolvable: %v", e.Typename, e.Index, e.Wrap)
}

func (e *EntityNotResolvableError) Unwrap() error { return e.Wrap }
func (e *EntityNotResolvableError) Code() string  { return "ENTITY_NOT_RESOLVABLE" }

// RequiresDependencyMissingError is returned when a @requires field is
// absent from a representation passed into `_entities`.
type RequiresDependencyMissingError struct {
	Typename string
	Field    string
	Path     []any
}

func (e *RequiresDependencyMissingError) Error() string {
	return fmt.Sprintf("fraiseql: %s.%s is required but missing from representation", e.Typename, e.Field)
}

func (e *RequiresDependencyMissingError) Is(target error) bool {
	return target == ErrRequiresDependencyMissing
}

func (e *RequiresDependencyMissingError) Code() string { return "REQUIRES_DEPENDENCY_MISSING" }

// ProtocolError is the sealed variant family for §7 protocol errors.
type ProtocolError interface {
	error
	Code() string
}

// MalformedQueryError is returned when the request body cannot be
// interpreted as a GraphQL operation (missing query/persistedQuery, bad
// JSON shape). The parser itself is out of scope; this only covers the
// envelope contract in §6.
type MalformedQueryError struct{ Reason string }

func (e *MalformedQueryError) Error() string { return "fraiseql: malformed query: " + e.Reason }
func (e *MalformedQueryError) Code() string  { return "MALFORMED_QUERY" }

// UnknownPersistedHashError is returned when `extensions.persistedQuery.sha256Hash`
// is present, no `query` was sent, and the hash is not in the APQ cache.
type UnknownPersistedHashError struct{ Hash string }

func (e *UnknownPersistedHashError) Error() string {
	return fmt.Sprintf("fraiseql: unknown persisted query hash %q", e.Hash)
}
func (e *UnknownPersistedHashError) Code() string { return "PERSISTED_QUERY_NOT_FOUND" }

// UnsupportedAcceptError reports an Accept header that maps to none of
// the JSON/Arrow/Delta planes. executor.ResolvePlane does not return it:
// an unrecognized media type selects the JSON plane there.
type UnsupportedAcceptError struct{ Accept string }

func (e *UnsupportedAcceptError) Error() string {
	return fmt.Sprintf("fraiseql: unsupported Accept header %q", e.Accept)
}
func (e *UnsupportedAcceptError) Code() string { return "UNSUPPORTED_ACCEPT" }

// AuthorizationError is the sealed variant family for §7 authorization
// errors.
type AuthorizationError interface {
	error
	Code() string
}

// PermissionDeniedError is returned when a privacy policy rule denies a
// query or mutation, or a field-level permission descriptor rejects
// access to a requested field.
type PermissionDeniedError struct {
	Path []any
	Rule string
}

func (e *PermissionDeniedError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("fraiseql: permission denied (%s)", e.Rule)
	}
	return "fraiseql: permission denied"
}
func (e *PermissionDeniedError) Is(target error) bool { return target == ErrPermissionDenied }
func (e *PermissionDeniedError) Code() string         { return "PERMISSION_DENIED" }

// RateLimitedError is returned when a request exceeds a configured
// rate-limit threshold.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string     { return "fraiseql: rate limited" }
func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }
func (e *RateLimitedError) Code() string      { return "RATE_LIMITED" }

// DataError is the sealed variant family for §7 data errors.
type DataError interface {
	error
	Code() string
}

// RowDecodeError is returned by the Response Builder when a row's JSON
// text is malformed. RowIndex is the position within the current result
// set; Cause is the underlying decode error. When a sensitive-data
// policy is configured, the offending row text itself is never retained
// on this error value.
type RowDecodeError struct {
	RowIndex int
	Cause    error
}

func (e *RowDecodeError) Error() string {
	return fmt.Sprintf("fraiseql: row %d: malformed row JSON: %v", e.RowIndex, e.Cause)
}

func (e *RowDecodeError) Unwrap() error { return e.Cause }
func (e *RowDecodeError) Code() string  { return "ROW_DECODE_ERROR" }

// CursorEncodeError is returned when a keyset cursor's column values
// cannot be JSON-encoded (e.g. a float64 keyset column holding NaN or
// +Inf). Reachable at request time during cursor emission (§4.F step
// 6), so it is surfaced as a runtime ExecutionError rather than
// panicking the process (§7).
type CursorEncodeError struct {
	Cause error
}

func (e *CursorEncodeError) Error() string {
	return fmt.Sprintf("fraiseql: cursor values not json-encodable: %v", e.Cause)
}

func (e *CursorEncodeError) Unwrap() error { return e.Cause }
func (e *CursorEncodeError) Code() string  { return "CURSOR_ENCODE_ERROR" }

// IsUnsupportedOperator reports whether err is (or wraps) an
// UnsupportedOperatorError.
func IsUnsupportedOperator(err error) bool {
	var e *UnsupportedOperatorError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedOperator)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var e *TimeoutError
	return errors.As(err, &e) || errors.Is(err, ErrTimeout)
}

// IsCancelled reports whether err is (or wraps) a CancelledError.
func IsCancelled(err error) bool {
	var e *CancelledError
	return errors.As(err, &e) || errors.Is(err, ErrCancelled)
}

// IsPermissionDenied reports whether err is (or wraps) a PermissionDeniedError.
func IsPermissionDenied(err error) bool {
	var e *PermissionDeniedError
	return errors.As(err, &e) || errors.Is(err, ErrPermissionDenied)
}

// IsSubgraphUnreachable reports whether err is (or wraps) a SubgraphUnreachableError.
func IsSubgraphUnreachable(err error) bool {
	var e *SubgraphUnreachableError
	return errors.As(err, &e) || errors.Is(err, ErrSubgraphUnreachable)
}
