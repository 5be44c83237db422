package configuration

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(SchedulingConfigHookFunc()),
}

// SchedulingConfigHookFunc decodes configuration strings such as "spf,lpf@20"
// appearing in YAML specs into a SchedulingConfig.
func SchedulingConfigHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		// check that src and target types are valid
		if f.Kind() != reflect.String || t != reflect.TypeOf(SchedulingConfig{}) {
			return data, nil
		}
		return Parse(data.(string))
	}
}
