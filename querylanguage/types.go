package querylanguage

import (
	"encoding/base64"
	"strconv"
	"time"
)

// Fielder binds a type-generic, not-yet-bound predicate to a concrete
// field name, producing a renderable P. Each ...P family below (StringP,
// IntP, BoolP, ...) is a Fielder specialized to one Go type.
type Fielder interface {
	Field(name string) P
}

// Predicate is a predicate awaiting a field name. The ...P family
// aliases below give each Go type its own named surface while sharing
// this single implementation.
type Predicate[T any] func(field string) P

// Field binds p to field, producing a concrete P.
func (p Predicate[T]) Field(field string) P { return p(field) }

func predNil[T any]() Predicate[T]    { return func(field string) P { return EQ(F(field), nil) } }
func predNotNil[T any]() Predicate[T] { return func(field string) P { return NEQ(F(field), nil) } }

func predAnd[T any](ps ...Predicate[T]) Predicate[T] {
	return func(field string) P {
		bound := make([]P, len(ps))
		for i, p := range ps {
			bound[i] = p(field)
		}
		return NaryExpr{Op: "&&", Operands: bound}
	}
}

func predOr[T any](ps ...Predicate[T]) Predicate[T] {
	return func(field string) P {
		bound := make([]P, len(ps))
		for i, p := range ps {
			bound[i] = p(field)
		}
		return NaryExpr{Op: "||", Operands: bound}
	}
}

func predNot[T any](p Predicate[T]) Predicate[T] {
	return func(field string) P { return Not(p(field)) }
}

// predBinary builds a comparison predicate, rendering v through toLit
// so each type family controls how its values print (quoted string,
// base64, RFC3339, a non-scientific number, or an opaque placeholder).
func predBinary[T any](op string, toLit func(T) any, v T) Predicate[T] {
	return func(field string) P { return BinaryExpr{Op: op, Left: F(field), Right: toLit(v)} }
}

func identityLit[T any](v T) any { return v }

func floatLit(v float64, bitSize int) any {
	return rawLiteral(strconv.FormatFloat(v, 'f', -1, bitSize))
}

func bytesLit(v []byte) any { return base64.StdEncoding.EncodeToString(v) }

func timeLit(v time.Time) any { return v.Format(time.RFC3339) }

func opaqueLit(any) any { return rawLiteral("{}") }

// StringP is a string predicate awaiting a field name.
type StringP = Predicate[string]

func StringEQ(v string) StringP  { return predBinary("==", identityLit[string], v) }
func StringNEQ(v string) StringP { return predBinary("!=", identityLit[string], v) }
func StringLT(v string) StringP  { return predBinary("<", identityLit[string], v) }
func StringLTE(v string) StringP { return predBinary("<=", identityLit[string], v) }
func StringGT(v string) StringP  { return predBinary(">", identityLit[string], v) }
func StringGTE(v string) StringP { return predBinary(">=", identityLit[string], v) }
func StringNil() StringP         { return predNil[string]() }
func StringNotNil() StringP      { return predNotNil[string]() }
func StringAnd(ps ...StringP) StringP { return predAnd(ps...) }
func StringOr(ps ...StringP) StringP  { return predOr(ps...) }
func StringNot(p StringP) StringP     { return predNot(p) }

// BoolP is a boolean predicate awaiting a field name.
type BoolP = Predicate[bool]

func BoolEQ(v bool) BoolP  { return predBinary("==", identityLit[bool], v) }
func BoolNEQ(v bool) BoolP { return predBinary("!=", identityLit[bool], v) }
func BoolNil() BoolP       { return predNil[bool]() }
func BoolNotNil() BoolP    { return predNotNil[bool]() }
func BoolAnd(ps ...BoolP) BoolP { return predAnd(ps...) }
func BoolOr(ps ...BoolP) BoolP  { return predOr(ps...) }
func BoolNot(p BoolP) BoolP     { return predNot(p) }

// BytesP is a []byte predicate awaiting a field name. Values render
// base64-encoded, since raw bytes aren't meaningfully printable.
type BytesP = Predicate[[]byte]

func BytesEQ(v []byte) BytesP  { return predBinary("==", bytesLit, v) }
func BytesNEQ(v []byte) BytesP { return predBinary("!=", bytesLit, v) }
func BytesNil() BytesP         { return predNil[[]byte]() }
func BytesNotNil() BytesP      { return predNotNil[[]byte]() }
func BytesAnd(ps ...BytesP) BytesP { return predAnd(ps...) }
func BytesOr(ps ...BytesP) BytesP  { return predOr(ps...) }
func BytesNot(p BytesP) BytesP     { return predNot(p) }

// TimeP is a time.Time predicate awaiting a field name. Values render
// as RFC3339-quoted strings.
type TimeP = Predicate[time.Time]

func TimeEQ(v time.Time) TimeP  { return predBinary("==", timeLit, v) }
func TimeNEQ(v time.Time) TimeP { return predBinary("!=", timeLit, v) }
func TimeLT(v time.Time) TimeP  { return predBinary("<", timeLit, v) }
func TimeLTE(v time.Time) TimeP { return predBinary("<=", timeLit, v) }
func TimeGT(v time.Time) TimeP  { return predBinary(">", timeLit, v) }
func TimeGTE(v time.Time) TimeP { return predBinary(">=", timeLit, v) }
func TimeNil() TimeP            { return predNil[time.Time]() }
func TimeNotNil() TimeP         { return predNotNil[time.Time]() }
func TimeAnd(ps ...TimeP) TimeP { return predAnd(ps...) }
func TimeOr(ps ...TimeP) TimeP  { return predOr(ps...) }
func TimeNot(p TimeP) TimeP     { return predNot(p) }

// UintP is a uint predicate awaiting a field name.
type UintP = Predicate[uint]

func UintEQ(v uint) UintP  { return predBinary("==", identityLit[uint], v) }
func UintNEQ(v uint) UintP { return predBinary("!=", identityLit[uint], v) }
func UintLT(v uint) UintP  { return predBinary("<", identityLit[uint], v) }
func UintLTE(v uint) UintP { return predBinary("<=", identityLit[uint], v) }
func UintGT(v uint) UintP  { return predBinary(">", identityLit[uint], v) }
func UintGTE(v uint) UintP { return predBinary(">=", identityLit[uint], v) }
func UintNil() UintP       { return predNil[uint]() }
func UintNotNil() UintP    { return predNotNil[uint]() }
func UintAnd(ps ...UintP) UintP { return predAnd(ps...) }
func UintOr(ps ...UintP) UintP  { return predOr(ps...) }
func UintNot(p UintP) UintP     { return predNot(p) }

// Uint8P is a uint8 predicate awaiting a field name.
type Uint8P = Predicate[uint8]

func Uint8EQ(v uint8) Uint8P  { return predBinary("==", identityLit[uint8], v) }
func Uint8NEQ(v uint8) Uint8P { return predBinary("!=", identityLit[uint8], v) }
func Uint8LT(v uint8) Uint8P  { return predBinary("<", identityLit[uint8], v) }
func Uint8LTE(v uint8) Uint8P { return predBinary("<=", identityLit[uint8], v) }
func Uint8GT(v uint8) Uint8P  { return predBinary(">", identityLit[uint8], v) }
func Uint8GTE(v uint8) Uint8P { return predBinary(">=", identityLit[uint8], v) }
func Uint8Nil() Uint8P        { return predNil[uint8]() }
func Uint8NotNil() Uint8P     { return predNotNil[uint8]() }
func Uint8And(ps ...Uint8P) Uint8P { return predAnd(ps...) }
func Uint8Or(ps ...Uint8P) Uint8P  { return predOr(ps...) }
func Uint8Not(p Uint8P) Uint8P     { return predNot(p) }

// Uint16P is a uint16 predicate awaiting a field name.
type Uint16P = Predicate[uint16]

func Uint16EQ(v uint16) Uint16P  { return predBinary("==", identityLit[uint16], v) }
func Uint16NEQ(v uint16) Uint16P { return predBinary("!=", identityLit[uint16], v) }
func Uint16LT(v uint16) Uint16P  { return predBinary("<", identityLit[uint16], v) }
func Uint16LTE(v uint16) Uint16P { return predBinary("<=", identityLit[uint16], v) }
func Uint16GT(v uint16) Uint16P  { return predBinary(">", identityLit[uint16], v) }
func Uint16GTE(v uint16) Uint16P { return predBinary(">=", identityLit[uint16], v) }
func Uint16Nil() Uint16P         { return predNil[uint16]() }
func Uint16NotNil() Uint16P      { return predNotNil[uint16]() }
func Uint16And(ps ...Uint16P) Uint16P { return predAnd(ps...) }
func Uint16Or(ps ...Uint16P) Uint16P  { return predOr(ps...) }
func Uint16Not(p Uint16P) Uint16P     { return predNot(p) }

// Uint32P is a uint32 predicate awaiting a field name.
type Uint32P = Predicate[uint32]

func Uint32EQ(v uint32) Uint32P  { return predBinary("==", identityLit[uint32], v) }
func Uint32NEQ(v uint32) Uint32P { return predBinary("!=", identityLit[uint32], v) }
func Uint32LT(v uint32) Uint32P  { return predBinary("<", identityLit[uint32], v) }
func Uint32LTE(v uint32) Uint32P { return predBinary("<=", identityLit[uint32], v) }
func Uint32GT(v uint32) Uint32P  { return predBinary(">", identityLit[uint32], v) }
func Uint32GTE(v uint32) Uint32P { return predBinary(">=", identityLit[uint32], v) }
func Uint32Nil() Uint32P         { return predNil[uint32]() }
func Uint32NotNil() Uint32P      { return predNotNil[uint32]() }
func Uint32And(ps ...Uint32P) Uint32P { return predAnd(ps...) }
func Uint32Or(ps ...Uint32P) Uint32P  { return predOr(ps...) }
func Uint32Not(p Uint32P) Uint32P     { return predNot(p) }

// Uint64P is a uint64 predicate awaiting a field name.
type Uint64P = Predicate[uint64]

func Uint64EQ(v uint64) Uint64P  { return predBinary("==", identityLit[uint64], v) }
func Uint64NEQ(v uint64) Uint64P { return predBinary("!=", identityLit[uint64], v) }
func Uint64LT(v uint64) Uint64P  { return predBinary("<", identityLit[uint64], v) }
func Uint64LTE(v uint64) Uint64P { return predBinary("<=", identityLit[uint64], v) }
func Uint64GT(v uint64) Uint64P  { return predBinary(">", identityLit[uint64], v) }
func Uint64GTE(v uint64) Uint64P { return predBinary(">=", identityLit[uint64], v) }
func Uint64Nil() Uint64P         { return predNil[uint64]() }
func Uint64NotNil() Uint64P      { return predNotNil[uint64]() }
func Uint64And(ps ...Uint64P) Uint64P { return predAnd(ps...) }
func Uint64Or(ps ...Uint64P) Uint64P  { return predOr(ps...) }
func Uint64Not(p Uint64P) Uint64P     { return predNot(p) }

// IntP is an int predicate awaiting a field name.
type IntP = Predicate[int]

func IntEQ(v int) IntP  { return predBinary("==", identityLit[int], v) }
func IntNEQ(v int) IntP { return predBinary("!=", identityLit[int], v) }
func IntLT(v int) IntP  { return predBinary("<", identityLit[int], v) }
func IntLTE(v int) IntP { return predBinary("<=", identityLit[int], v) }
func IntGT(v int) IntP  { return predBinary(">", identityLit[int], v) }
func IntGTE(v int) IntP { return predBinary(">=", identityLit[int], v) }
func IntNil() IntP      { return predNil[int]() }
func IntNotNil() IntP   { return predNotNil[int]() }
func IntAnd(ps ...IntP) IntP { return predAnd(ps...) }
func IntOr(ps ...IntP) IntP  { return predOr(ps...) }
func IntNot(p IntP) IntP     { return predNot(p) }

// Int8P is an int8 predicate awaiting a field name.
type Int8P = Predicate[int8]

func Int8EQ(v int8) Int8P  { return predBinary("==", identityLit[int8], v) }
func Int8NEQ(v int8) Int8P { return predBinary("!=", identityLit[int8], v) }
func Int8LT(v int8) Int8P  { return predBinary("<", identityLit[int8], v) }
func Int8LTE(v int8) Int8P { return predBinary("<=", identityLit[int8], v) }
func Int8GT(v int8) Int8P  { return predBinary(">", identityLit[int8], v) }
func Int8GTE(v int8) Int8P { return predBinary(">=", identityLit[int8], v) }
func Int8Nil() Int8P       { return predNil[int8]() }
func Int8NotNil() Int8P    { return predNotNil[int8]() }
func Int8And(ps ...Int8P) Int8P { return predAnd(ps...) }
func Int8Or(ps ...Int8P) Int8P  { return predOr(ps...) }
func Int8Not(p Int8P) Int8P     { return predNot(p) }

// Int16P is an int16 predicate awaiting a field name.
type Int16P = Predicate[int16]

func Int16EQ(v int16) Int16P  { return predBinary("==", identityLit[int16], v) }
func Int16NEQ(v int16) Int16P { return predBinary("!=", identityLit[int16], v) }
func Int16LT(v int16) Int16P  { return predBinary("<", identityLit[int16], v) }
func Int16LTE(v int16) Int16P { return predBinary("<=", identityLit[int16], v) }
func Int16GT(v int16) Int16P  { return predBinary(">", identityLit[int16], v) }
func Int16GTE(v int16) Int16P { return predBinary(">=", identityLit[int16], v) }
func Int16Nil() Int16P        { return predNil[int16]() }
func Int16NotNil() Int16P     { return predNotNil[int16]() }
func Int16And(ps ...Int16P) Int16P { return predAnd(ps...) }
func Int16Or(ps ...Int16P) Int16P  { return predOr(ps...) }
func Int16Not(p Int16P) Int16P     { return predNot(p) }

// Int32P is an int32 predicate awaiting a field name.
type Int32P = Predicate[int32]

func Int32EQ(v int32) Int32P  { return predBinary("==", identityLit[int32], v) }
func Int32NEQ(v int32) Int32P { return predBinary("!=", identityLit[int32], v) }
func Int32LT(v int32) Int32P  { return predBinary("<", identityLit[int32], v) }
func Int32LTE(v int32) Int32P { return predBinary("<=", identityLit[int32], v) }
func Int32GT(v int32) Int32P  { return predBinary(">", identityLit[int32], v) }
func Int32GTE(v int32) Int32P { return predBinary(">=", identityLit[int32], v) }
func Int32Nil() Int32P        { return predNil[int32]() }
func Int32NotNil() Int32P     { return predNotNil[int32]() }
func Int32And(ps ...Int32P) Int32P { return predAnd(ps...) }
func Int32Or(ps ...Int32P) Int32P  { return predOr(ps...) }
func Int32Not(p Int32P) Int32P     { return predNot(p) }

// Int64P is an int64 predicate awaiting a field name.
type Int64P = Predicate[int64]

func Int64EQ(v int64) Int64P  { return predBinary("==", identityLit[int64], v) }
func Int64NEQ(v int64) Int64P { return predBinary("!=", identityLit[int64], v) }
func Int64LT(v int64) Int64P  { return predBinary("<", identityLit[int64], v) }
func Int64LTE(v int64) Int64P { return predBinary("<=", identityLit[int64], v) }
func Int64GT(v int64) Int64P  { return predBinary(">", identityLit[int64], v) }
func Int64GTE(v int64) Int64P { return predBinary(">=", identityLit[int64], v) }
func Int64Nil() Int64P        { return predNil[int64]() }
func Int64NotNil() Int64P     { return predNotNil[int64]() }
func Int64And(ps ...Int64P) Int64P { return predAnd(ps...) }
func Int64Or(ps ...Int64P) Int64P  { return predOr(ps...) }
func Int64Not(p Int64P) Int64P     { return predNot(p) }

// Float32P is a float32 predicate awaiting a field name. Values render
// in plain decimal notation, never scientific.
type Float32P = Predicate[float32]

func float32Lit(v float32) any { return floatLit(float64(v), 32) }

func Float32EQ(v float32) Float32P  { return predBinary("==", float32Lit, v) }
func Float32NEQ(v float32) Float32P { return predBinary("!=", float32Lit, v) }
func Float32LT(v float32) Float32P  { return predBinary("<", float32Lit, v) }
func Float32LTE(v float32) Float32P { return predBinary("<=", float32Lit, v) }
func Float32GT(v float32) Float32P  { return predBinary(">", float32Lit, v) }
func Float32GTE(v float32) Float32P { return predBinary(">=", float32Lit, v) }
func Float32Nil() Float32P          { return predNil[float32]() }
func Float32NotNil() Float32P       { return predNotNil[float32]() }
func Float32And(ps ...Float32P) Float32P { return predAnd(ps...) }
func Float32Or(ps ...Float32P) Float32P  { return predOr(ps...) }
func Float32Not(p Float32P) Float32P     { return predNot(p) }

// Float64P is a float64 predicate awaiting a field name. Values render
// in plain decimal notation, never scientific.
type Float64P = Predicate[float64]

func float64Lit(v float64) any { return floatLit(v, 64) }

func Float64EQ(v float64) Float64P  { return predBinary("==", float64Lit, v) }
func Float64NEQ(v float64) Float64P { return predBinary("!=", float64Lit, v) }
func Float64LT(v float64) Float64P  { return predBinary("<", float64Lit, v) }
func Float64LTE(v float64) Float64P { return predBinary("<=", float64Lit, v) }
func Float64GT(v float64) Float64P  { return predBinary(">", float64Lit, v) }
func Float64GTE(v float64) Float64P { return predBinary(">=", float64Lit, v) }
func Float64Nil() Float64P          { return predNil[float64]() }
func Float64NotNil() Float64P       { return predNotNil[float64]() }
func Float64And(ps ...Float64P) Float64P { return predAnd(ps...) }
func Float64Or(ps ...Float64P) Float64P  { return predOr(ps...) }
func Float64Not(p Float64P) Float64P     { return predNot(p) }

// ValueP is a predicate over an arbitrary driver.Valuer-shaped value
// (e.g. a custom scalar). Comparisons render an opaque "{}" placeholder
// rather than the resolved value, which isn't meaningful to print
// generically.
type ValueP = Predicate[any]

func ValueEQ(v any) ValueP  { return predBinary("==", opaqueLit, v) }
func ValueNEQ(v any) ValueP { return predBinary("!=", opaqueLit, v) }
func ValueNil() ValueP      { return predNil[any]() }
func ValueNotNil() ValueP   { return predNotNil[any]() }
func ValueAnd(ps ...ValueP) ValueP { return predAnd(ps...) }
func ValueOr(ps ...ValueP) ValueP  { return predOr(ps...) }
func ValueNot(p ValueP) ValueP     { return predNot(p) }

// OtherP is a predicate over a field whose Go type matches none of the
// other families (e.g. a JSONB column bound to a map). Comparisons
// render the same opaque "{}" placeholder as ValueP.
type OtherP = Predicate[any]

func OtherEQ(v any) OtherP  { return predBinary("==", opaqueLit, v) }
func OtherNEQ(v any) OtherP { return predBinary("!=", opaqueLit, v) }
func OtherNil() OtherP      { return predNil[any]() }
func OtherNotNil() OtherP   { return predNotNil[any]() }
func OtherAnd(ps ...OtherP) OtherP { return predAnd(ps...) }
func OtherOr(ps ...OtherP) OtherP  { return predOr(ps...) }
func OtherNot(p OtherP) OtherP     { return predNot(p) }
