package dsn

import (
	"fmt"
	"reflect"
	"slices"
	"time"
)

// OptionInfo describes a recognized option key.
type OptionInfo struct {
	Key     string
	Aliases []string
	// Env is the environment variable that supplies the option, if any.
	Env string
	// Default is the value used when no layer sets the key. Empty means
	// the cluster client's own default applies.
	Default     string
	Secret      bool
	Description string
}

// Options lists every recognized option key in declaration order.
func Options() []OptionInfo {
	byKey := make(map[string][]string)
	for alias, key := range aliases {
		byKey[key] = append(byKey[key], alias)
	}
	envByKey := make(map[string]string, len(envKeys))
	for _, e := range envKeys {
		envByKey[e.key] = e.env
	}

	defaults := reflect.ValueOf(defaultSettings())
	t := defaults.Type()
	infos := make([]OptionInfo, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		key := f.Tag.Get("mapstructure")
		names := byKey[key]
		slices.Sort(names)

		infos = append(infos, OptionInfo{
			Key:         key,
			Aliases:     names,
			Env:         envByKey[key],
			Default:     formatDefault(defaults.Field(i)),
			Secret:      secretKeys[key],
			Description: f.Tag.Get("desc"),
		})
	}

	return infos
}

func formatDefault(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Bool:
		return fmt.Sprint(v.Bool())
	case reflect.Int:
		return fmt.Sprint(v.Int())
	case reflect.Int64:
		if d, ok := v.Interface().(time.Duration); ok && d == 0 {
			return ""
		}
	case reflect.String, reflect.Slice:
		if v.Len() == 0 {
			return ""
		}
	}

	return fmt.Sprint(v.Interface())
}
