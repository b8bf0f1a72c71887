package sqlite

import (
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// Value type tags stored next to each encoded value.
const (
	valueString  = "string"
	valueInt     = "int"
	valueUint    = "uint"
	valueFloat   = "float"
	valueFloat32 = "float32"
	valueBool    = "bool"
)

// encodeValue returns the type tag and text form of a record value.
// Signed integers widen to int64 and unsigned to uint64 on the way back;
// float32 keeps its own tag.
func encodeValue(v any) (string, string, error) {
	switch t := v.(type) {
	case string:
		return valueString, t, nil
	case bool:
		return valueBool, strconv.FormatBool(t), nil
	case int:
		return valueInt, strconv.FormatInt(int64(t), 10), nil
	case int8:
		return valueInt, strconv.FormatInt(int64(t), 10), nil
	case int16:
		return valueInt, strconv.FormatInt(int64(t), 10), nil
	case int32:
		return valueInt, strconv.FormatInt(int64(t), 10), nil
	case int64:
		return valueInt, strconv.FormatInt(t, 10), nil
	case uint:
		return valueUint, strconv.FormatUint(uint64(t), 10), nil
	case uint8:
		return valueUint, strconv.FormatUint(uint64(t), 10), nil
	case uint16:
		return valueUint, strconv.FormatUint(uint64(t), 10), nil
	case uint32:
		return valueUint, strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return valueUint, strconv.FormatUint(t, 10), nil
	case float32:
		return valueFloat32, strconv.FormatFloat(float64(t), 'g', -1, 32), nil
	case float64:
		return valueFloat, strconv.FormatFloat(t, 'g', -1, 64), nil
	}
	return "", "", fmt.Errorf("%w: %T", types.ErrInvalidValue, v)
}

// decodeValue reverses encodeValue.
func decodeValue(valueType, text string) (any, error) {
	switch valueType {
	case valueString:
		return text, nil
	case valueBool:
		return strconv.ParseBool(text)
	case valueInt:
		return strconv.ParseInt(text, 10, 64)
	case valueUint:
		return strconv.ParseUint(text, 10, 64)
	case valueFloat:
		return strconv.ParseFloat(text, 64)
	case valueFloat32:
		f, err := strconv.ParseFloat(text, 32)
		return float32(f), err
	}
	return nil, fmt.Errorf("%w: unknown value type %q", types.ErrInvalidValue, valueType)
}
