package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// processStructFields walks a config struct recursively and overrides any
// field carrying an `env:` tag with the value of that environment variable,
// when set.
func processStructFields(v interface{}) error {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return fmt.Errorf("expected a non-nil pointer to a struct")
	}
	return processValue(value.Elem())
}

func processValue(value reflect.Value) error {
	if value.Kind() != reflect.Struct {
		return nil
	}

	t := value.Type()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		fieldType := t.Field(i)

		// Recurse into nested config sections
		if field.Kind() == reflect.Struct {
			if err := processValue(field); err != nil {
				return err
			}
			continue
		}

		envKey := fieldType.Tag.Get("env")
		if envKey == "" {
			continue
		}

		envValue, exists := os.LookupEnv(envKey)
		if !exists {
			continue
		}

		if err := setField(field, envValue); err != nil {
			return fmt.Errorf("invalid value for %s: %w", envKey, err)
		}
	}

	return nil
}

func setField(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	}

	return nil
}
