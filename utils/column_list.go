package utils

import (
	"fmt"
	"reflect"
)

// ColumnList builds the list of column names of a db model struct from its
// `db:"..."` tags, in field declaration order. Embedded structs are
// flattened, matching how pgx.RowToStructByName scans them.
func ColumnList[T any](prefixes ...string) []string {
	var value T
	structType := reflect.TypeOf(value)
	if structType.Kind() != reflect.Struct {
		panic(fmt.Sprintf("ColumnList: %T is not a struct", value))
	}

	var prefix string
	if len(prefixes) > 0 {
		prefix = prefixes[0] + "."
	}

	return appendColumns(nil, structType, prefix)
}

func appendColumns(columns []string, structType reflect.Type, prefix string) []string {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = appendColumns(columns, field.Type, prefix)
			continue
		}
		tag, ok := field.Tag.Lookup("db")
		if !ok || tag == "-" {
			continue
		}
		columns = append(columns, prefix+tag)
	}
	return columns
}
