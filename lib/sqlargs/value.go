package sqlargs

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"
)

type Kind int

const (
	Null Kind = iota
	Int64
	Float64
	String
	Bool
	Bytes
	Timestamp
	Date
	Decimal
	BigInt
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Bytes:
		return "bytes"
	case Timestamp:
		return "timestamp"
	case Date:
		return "date"
	case Decimal:
		return "decimal"
	case BigInt:
		return "bigint"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const dateLayout = time.DateOnly

// Value is a single statement argument. The zero value is NULL.
type Value struct {
	kind Kind
	// raw holds the Go value matching kind: int64, float64, string, bool, []byte, time.Time, *apd.Decimal or *big.Int.
	raw any
}

func NullValue() Value {
	return Value{kind: Null}
}

func Int64Value(v int64) Value {
	return Value{kind: Int64, raw: v}
}

func Float64Value(v float64) Value {
	return Value{kind: Float64, raw: v}
}

func StringValue(v string) Value {
	return Value{kind: String, raw: v}
}

func BoolValue(v bool) Value {
	return Value{kind: Bool, raw: v}
}

func BytesValue(v []byte) Value {
	if v == nil {
		return NullValue()
	}
	return Value{kind: Bytes, raw: v}
}

func TimestampValue(v time.Time) Value {
	return Value{kind: Timestamp, raw: v}
}

// DateValue keeps the calendar date of [v] (in its own location) and drops the time of day.
func DateValue(v time.Time) Value {
	return Value{kind: Date, raw: time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)}
}

func DecimalValue(v *apd.Decimal) Value {
	if v == nil {
		return NullValue()
	}
	return Value{kind: Decimal, raw: v}
}

func BigIntValue(v *big.Int) Value {
	if v == nil {
		return NullValue()
	}
	return Value{kind: BigInt, raw: v}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == Null
}

// Interface returns the wrapped Go value, nil for NULL.
func (v Value) Interface() any {
	return v.raw
}

// Value implements [driver.Valuer].
func (v Value) Value() (driver.Value, error) {
	switch v.kind {
	case Null:
		return nil, nil
	case Int64, Float64, String, Bool, Bytes, Timestamp, Date:
		return v.raw, nil
	case Decimal:
		return v.raw.(*apd.Decimal).Text('f'), nil
	case BigInt:
		return v.raw.(*big.Int).String(), nil
	default:
		return nil, fmt.Errorf("unsupported value kind: %v", v.kind)
	}
}

func (v Value) String() string {
	switch v.kind {
	case Null:
		return "NULL"
	case Int64:
		return strconv.FormatInt(v.raw.(int64), 10)
	case Float64:
		return strconv.FormatFloat(v.raw.(float64), 'g', -1, 64)
	case String:
		return strconv.Quote(v.raw.(string))
	case Bool:
		return strconv.FormatBool(v.raw.(bool))
	case Bytes:
		return "0x" + hex.EncodeToString(v.raw.([]byte))
	case Timestamp:
		return v.raw.(time.Time).Format(time.RFC3339Nano)
	case Date:
		return v.raw.(time.Time).Format(dateLayout)
	case Decimal:
		return v.raw.(*apd.Decimal).Text('f')
	case BigInt:
		return v.raw.(*big.Int).String()
	default:
		return v.kind.String()
	}
}

// Of converts a common Go value into a [Value].
func Of(v any) (Value, error) {
	switch castedValue := v.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return castedValue, nil
	case *Value:
		if castedValue == nil {
			return NullValue(), nil
		}
		return *castedValue, nil
	case int:
		return Int64Value(int64(castedValue)), nil
	case int8:
		return Int64Value(int64(castedValue)), nil
	case int16:
		return Int64Value(int64(castedValue)), nil
	case int32:
		return Int64Value(int64(castedValue)), nil
	case int64:
		return Int64Value(castedValue), nil
	case uint:
		return fromUint64(uint64(castedValue)), nil
	case uint8:
		return Int64Value(int64(castedValue)), nil
	case uint16:
		return Int64Value(int64(castedValue)), nil
	case uint32:
		return Int64Value(int64(castedValue)), nil
	case uint64:
		return fromUint64(castedValue), nil
	case float32:
		return Float64Value(float64(castedValue)), nil
	case float64:
		return Float64Value(castedValue), nil
	case string:
		return StringValue(castedValue), nil
	case bool:
		return BoolValue(castedValue), nil
	case []byte:
		return BytesValue(castedValue), nil
	case time.Time:
		return TimestampValue(castedValue), nil
	case *apd.Decimal:
		return DecimalValue(castedValue), nil
	case *big.Int:
		return BigIntValue(castedValue), nil
	case driver.Valuer:
		if isNilPointer(castedValue) {
			return NullValue(), nil
		}
		value, err := castedValue.Value()
		if err != nil {
			return Value{}, fmt.Errorf("failed to get value from %T: %w", v, err)
		}
		return Of(value)
	}

	return ofReflected(v)
}

// ofReflected handles named types (type ID int64) and pointers to supported values.
func ofReflected(v any) (Value, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return NullValue(), nil
		}
		return Of(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int64Value(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fromUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float64Value(rv.Float()), nil
	case reflect.String:
		return StringValue(rv.String()), nil
	case reflect.Bool:
		return BoolValue(rv.Bool()), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if rv.IsNil() {
				return NullValue(), nil
			}
			return BytesValue(rv.Bytes()), nil
		}
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

func fromUint64(v uint64) Value {
	if v > math.MaxInt64 {
		return BigIntValue(new(big.Int).SetUint64(v))
	}
	return Int64Value(int64(v))
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
