// Package envstruct populates configuration structs from environment
// variables without pulling in a configuration framework.
package envstruct

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrEnvNotSet    = errors.New("environment variable not set")
	ErrInvalidValue = errors.New("v must be a pointer to a struct")
)

// Populate fills the fields of the pointer to struct v from the environment.
//
// lookupEnv has the same signature as [os.LookupEnv] so that tests can inject
// their own environment. Fields must be strings tagged with `env:"ENV_VAR"`.
// When the variable is unset the `envDefault:"value"` tag is used as a
// fallback, otherwise ErrEnvNotSet is returned. Problems across all fields
// are joined into a single error.
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: not pointer: %v", ErrInvalidValue, v)
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return fmt.Errorf("%w: not struct: %v", ErrInvalidValue, v)
	}

	refType := ref.Type()

	var errs []error
	for i := range refType.NumField() {
		field := ref.Field(i)
		fieldType := refType.Field(i)

		envVarName, tagged := fieldType.Tag.Lookup("env")
		if !tagged {
			continue
		}

		if !field.CanSet() {
			errs = append(errs, fmt.Errorf("%w: cannot set field: %s", ErrInvalidValue, fieldType.Name))
			continue
		}
		if field.Kind() != reflect.String {
			errs = append(errs, fmt.Errorf("%w: only strings are supported - field: %s, type: %s, env: %s",
				ErrInvalidValue, fieldType.Name, field.Kind().String(), envVarName))
			continue
		}

		val, err := lookupWithDefault(envVarName, fieldType.Tag, lookupEnv)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		field.SetString(val)
	}

	return errors.Join(errs...)
}

func lookupWithDefault(
	envVarName string, tag reflect.StructTag, lookupEnv func(string) (string, bool)) (string, error) {
	val, ok := lookupEnv(envVarName)
	if !ok {
		val, ok = tag.Lookup("envDefault")
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrEnvNotSet, envVarName)
		}
	}
	return val, nil
}
