package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Widget is an independently addressable display unit on a board. Its config
// payload is free-form JSON whose required shape depends on the widget type.
type Widget struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	BoardID    string `gorm:"not null;index"`
	Type       string `gorm:"not null"`
	Title      string `gorm:"not null"`
	Layout     string `gorm:"not null"`
	ConfigJSON string `gorm:"not null"`
	Enabled    bool   `gorm:"not null"`
	SortOrder  int    `gorm:"not null"`
}

// Widget types
const (
	WidgetTypeLink          = "link"
	WidgetTypeEmbed         = "embed"
	WidgetTypeMap           = "map"
	WidgetTypeUserSettings  = "user-settings"
	WidgetTypeAdminSettings = "admin-settings"
	WidgetTypeSignin        = "signin"
	WidgetTypeSignup        = "signup"
)

var widgetLayouts = map[string]struct{}{
	"span-1":   {},
	"span-2":   {},
	"span-3":   {},
	"span-4":   {},
	"span-1x2": {},
	"span-2x2": {},
	"span-3x3": {},
}

func ValidateWidgetLayout(layout string) error {
	if _, ok := widgetLayouts[layout]; !ok {
		return fmt.Errorf("unsupported widget layout: %s", layout)
	}
	return nil
}

// ValidateWidgetConfig checks a config payload against the shape required by the
// widget type. URL-carrying fields may be absent or blank; when set they must be
// textual and start with http. A map widget's places list, when set, must be a
// non-empty array of non-blank strings.
func ValidateWidgetConfig(widgetType string, config json.RawMessage) error {
	var payload any
	_ = json.Unmarshal(config, &payload)
	fields, isObject := payload.(map[string]any)

	switch widgetType {
	case WidgetTypeEmbed:
		return validateOptionalHTTPField(fields, "embedUrl", "embed config requires a valid http embedUrl")
	case WidgetTypeMap:
		return validateMapPlaces(fields)
	case WidgetTypeLink:
		return validateOptionalHTTPField(fields, "url", "link config requires a valid http url")
	case WidgetTypeUserSettings, WidgetTypeAdminSettings, WidgetTypeSignin, WidgetTypeSignup:
		if !isObject {
			return fmt.Errorf("%s config must be a JSON object", widgetType)
		}
		return nil
	default:
		return fmt.Errorf("unsupported widget type: %s", widgetType)
	}
}

func validateOptionalHTTPField(fields map[string]any, key, message string) error {
	value, ok := fields[key]
	if !ok || value == nil {
		return nil
	}
	text, isString := value.(string)
	if isString && strings.TrimSpace(text) == "" {
		return nil
	}
	if !isString || !strings.HasPrefix(text, "http") {
		return fmt.Errorf("%s", message)
	}
	return nil
}

func validateMapPlaces(fields map[string]any) error {
	value, ok := fields["places"]
	if !ok || value == nil {
		return nil
	}
	places, isArray := value.([]any)
	if !isArray {
		return fmt.Errorf("map config places must be an array")
	}
	if len(places) == 0 {
		return fmt.Errorf("map config requires a non-empty places array")
	}
	for _, place := range places {
		text, isString := place.(string)
		if !isString || strings.TrimSpace(text) == "" {
			return fmt.Errorf("map config places entries must be non-empty strings")
		}
	}
	return nil
}
