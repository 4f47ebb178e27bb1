package output

import (
	"context"
	"reflect"
)

// ApplyAgentOptions truncates list output to --result-limit items. Lists are
// either the data itself or a struct field named Results. The input is never
// modified.
func ApplyAgentOptions(ctx context.Context, data interface{}) interface{} {
	limit := LimitFromContext(ctx)
	if data == nil || limit <= 0 {
		return data
	}

	v := indirect(reflect.ValueOf(data))
	if !v.IsValid() {
		return data
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return limitSlice(v, limit).Interface()
	case reflect.Struct:
		results := v.FieldByName("Results")
		if !results.IsValid() || results.Kind() != reflect.Slice {
			return data
		}
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		cp.FieldByName("Results").Set(limitSlice(results, limit))
		return cp.Interface()
	}
	return data
}

// limitSlice returns a copy of v holding at most limit elements.
func limitSlice(v reflect.Value, limit int) reflect.Value {
	n := v.Len()
	if limit < n {
		n = limit
	}
	sliceType := v.Type()
	if v.Kind() == reflect.Array {
		sliceType = reflect.SliceOf(v.Type().Elem())
	}
	out := reflect.MakeSlice(sliceType, n, n)
	reflect.Copy(out, v)
	return out
}
