package utils

import (
	"reflect"

	"routine-guard/internal/models"
	"routine-guard/internal/types"
)

// GenerateSettingsMetadata flattens a SystemSettings struct into display
// metadata using the struct tags (json/name/desc/category). The name, desc
// and category values are i18n message IDs resolved by the handler layer.
func GenerateSettingsMetadata(s *types.SystemSettings) []models.SystemSettingInfo {
	var settingsInfo []models.SystemSettingInfo

	v := reflect.ValueOf(*s)
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}

		settingsInfo = append(settingsInfo, models.SystemSettingInfo{
			Key:          jsonTag,
			Name:         field.Tag.Get("name"),
			Description:  field.Tag.Get("desc"),
			Category:     field.Tag.Get("category"),
			Value:        v.Field(i).Interface(),
			DefaultValue: field.Tag.Get("default"),
		})
	}

	return settingsInfo
}
