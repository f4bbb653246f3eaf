package csvresponse

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// KeyValue is a single column of a row.
type KeyValue struct {
	Key   string
	Value any
}

// Row is an ordered list of columns. Order matters: headings come from the
// keys of the first row and every row is emitted positionally.
type Row []KeyValue

// Keys returns the column keys in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, kv := range r {
		keys[i] = kv.Key
	}
	return keys
}

// Values returns the column values in order.
func (r Row) Values() []any {
	values := make([]any, len(r))
	for i, kv := range r {
		values[i] = kv.Value
	}
	return values
}

// Pairer provides a row as key-value pairs.
type Pairer interface {
	Pairs() []KeyValue
}

// toRow reports whether v is row-like and returns it as a Row.
// Maps have no order, so their keys are sorted. String-keyed maps and
// iter.Seq2 sequences of other value types go through reflectRow.
func toRow(v any) (Row, bool) {
	switch r := v.(type) {
	case Row:
		return r, true
	case []KeyValue:
		return Row(r), true
	case Pairer:
		return Row(r.Pairs()), true
	case map[string]any:
		return mapRow(r), true
	case map[string]string:
		return mapRow(r), true
	case iter.Seq2[string, any]:
		return seq2Row(r), true
	case iter.Seq2[string, string]:
		return seq2Row(r), true
	case []string:
		return listRow(r), true
	case []any:
		return listRow(r), true
	default:
		return reflectRow(reflect.ValueOf(v))
	}
}

func reflectRow(v reflect.Value) (Row, bool) {
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})
		row := make(Row, len(keys))
		for i, k := range keys {
			row[i] = KeyValue{Key: k.String(), Value: v.MapIndex(k).Interface()}
		}
		return row, true
	case reflect.Func:
		if v.IsNil() || !isSeq2(v.Type()) {
			return nil, false
		}
		yieldType := v.Type().In(0)
		more := reflect.ValueOf(true).Convert(yieldType.Out(0))
		var row Row
		yield := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
			row = append(row, KeyValue{Key: args[0].String(), Value: args[1].Interface()})
			return []reflect.Value{more}
		})
		v.Call([]reflect.Value{yield})
		return row, true
	default:
		return nil, false
	}
}

// isSeq2 reports whether t has the shape of iter.Seq2[K, V] with a string
// kinded K.
func isSeq2(t reflect.Type) bool {
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	y := t.In(0)
	return y.Kind() == reflect.Func &&
		y.NumIn() == 2 && y.NumOut() == 1 &&
		y.In(0).Kind() == reflect.String &&
		y.Out(0).Kind() == reflect.Bool
}

func mapRow[V any](m map[string]V) Row {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	row := make(Row, len(keys))
	for i, k := range keys {
		row[i] = KeyValue{Key: k, Value: m[k]}
	}
	return row
}

func seq2Row[V any](seq iter.Seq2[string, V]) Row {
	var row Row
	for k, v := range seq {
		row = append(row, KeyValue{Key: k, Value: v})
	}
	return row
}

func listRow[V any](list []V) Row {
	row := make(Row, len(list))
	for i, v := range list {
		row[i] = KeyValue{Key: strconv.Itoa(i), Value: v}
	}
	return row
}

// stringify returns the text written for a value.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
