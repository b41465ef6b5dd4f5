package domain

import (
	"strconv"
	"time"
)

// SettingType tags how a setting's stored text should be interpreted.
type SettingType string

const (
	SettingString  SettingType = "string"
	SettingFloat   SettingType = "float"
	SettingInteger SettingType = "integer"
)

// Setting is one typed key/value configuration row, e.g. a unit-cost
// override for an item category.
type Setting struct {
	Key       string
	Value     string
	Type      SettingType
	CreatedAt time.Time
}

// FloatValue parses the stored text as a float; only valid for SettingFloat rows.
func (s *Setting) FloatValue() (float64, error) {
	return strconv.ParseFloat(s.Value, 64)
}

// IntValue parses the stored text as an integer; only valid for SettingInteger rows.
func (s *Setting) IntValue() (int64, error) {
	return strconv.ParseInt(s.Value, 10, 64)
}
