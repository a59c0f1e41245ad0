package utils

import (
	"reflect"
	"strconv"

	"routine-guard/internal/types"
)

// DefaultSystemSettings builds a SystemSettings populated from the struct's
// default tags.
func DefaultSystemSettings() types.SystemSettings {
	var settings types.SystemSettings

	v := reflect.ValueOf(&settings).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		def := field.Tag.Get("default")
		if def == "" {
			continue
		}

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(def)
		case reflect.Int:
			if n, err := strconv.ParseInt(def, 10, 64); err == nil {
				fv.SetInt(n)
			}
		case reflect.Float64:
			if f, err := strconv.ParseFloat(def, 64); err == nil {
				fv.SetFloat(f)
			}
		case reflect.Bool:
			if b, err := strconv.ParseBool(def); err == nil {
				fv.SetBool(b)
			}
		}
	}

	return settings
}
