package internalhooks

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap/zapcore"
)

// DecodeHookRegistry maps target type names to the hooks converting untyped data into them.
var DecodeHookRegistry = map[string]mapstructure.DecodeHookFunc{
	"[]string":      StringOrSliceHookFunc(),
	"zapcore.Level": StringToZapcoreLevelHookFunc(),
}

// DecodeHook composes every registered hook, in a stable order.
func DecodeHook() mapstructure.DecodeHookFunc {
	names := make([]string, 0, len(DecodeHookRegistry))
	for name := range DecodeHookRegistry {
		names = append(names, name)
	}
	sort.Strings(names)

	hooks := make([]mapstructure.DecodeHookFunc, len(names))
	for i, name := range names {
		hooks[i] = DecodeHookRegistry[name]
	}

	return mapstructure.ComposeDecodeHookFunc(hooks...)
}

// Decode decodes untyped validated data into output, which must be a pointer.
func Decode(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: DecodeHook(),
		Result:     output,
		Squash:     true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

// StringOrSliceHookFunc creates a decode hook that wraps a single string into a one-element []string.
//
// Lists are left to the default slice decoding.
func StringOrSliceHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf([]string{}) {
			return data, nil
		}

		return []string{reflect.ValueOf(data).String()}, nil
	}
}

// StringToZapcoreLevelHookFunc creates a decode hook that converts string values
// to zapcore.Level types during configuration unmarshaling.
func StringToZapcoreLevelHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(zapcore.DebugLevel) {
			return data, nil
		}

		raw := reflect.ValueOf(data).String()
		level, err := zapcore.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid string for zapcore.Level '%s': %w", raw, err)
		}

		return level, nil
	}
}
