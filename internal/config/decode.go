package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

func decimalHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		func(from reflect.Type, to reflect.Type, data any) (any, error) {
			if to != decimalType {
				return data, nil
			}
			switch v := data.(type) {
			case string:
				return decimal.NewFromString(strings.TrimSpace(v))
			case float64:
				return decimal.NewFromFloat(v), nil
			case float32:
				return decimal.NewFromFloat32(v), nil
			case int:
				return decimal.NewFromInt(int64(v)), nil
			case int64:
				return decimal.NewFromInt(v), nil
			case decimal.Decimal:
				return v, nil
			default:
				return nil, fmt.Errorf("cannot decode %T into decimal", data)
			}
		},
	)
}
