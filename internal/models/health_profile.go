package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Gender codes. Only GenderMale is matched explicitly; any other code is
// treated as female.
const (
	GenderFemale = 0
	GenderMale   = 1
)

// Tri-state vital sign codes.
const (
	VitalLow    = -1
	VitalNormal = 0
	VitalHigh   = 1
)

// TagList is an ordered list of tags stored and transported as a JSON-encoded
// string, e.g. `["insomnia","fatigue"]`. The raw text is kept as received so a
// malformed value can still be persisted and reported downstream.
type TagList string

// UnmarshalJSON accepts either the JSON-encoded string form or a plain array.
func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TagList(s)
	case '[':
		var tags []string
		if err := json.Unmarshal(data, &tags); err != nil {
			return fmt.Errorf("tags must be an array of strings: %w", err)
		}
		encoded, err := json.Marshal(tags)
		if err != nil {
			return err
		}
		*t = TagList(encoded)
	default:
		return fmt.Errorf("tags must be a JSON string or an array of strings")
	}
	return nil
}

// NewTagList encodes tags into the stored form.
func NewTagList(tags ...string) TagList {
	if tags == nil {
		tags = []string{}
	}
	encoded, _ := json.Marshal(tags)
	return TagList(encoded)
}

// HealthProfile is one recommendation submission. It is inserted once and
// never updated.
type HealthProfile struct {
	ProfileID     int64     `gorm:"column:profile_id;primaryKey;autoIncrement" json:"profileId"`
	UserID        int64     `gorm:"column:user_id;index" json:"userId"`
	Age           int       `gorm:"column:age" json:"age" validate:"gte=0,lte=150"`
	Gender        int       `gorm:"column:gender" json:"gender"`
	BloodPressure int       `gorm:"column:blood_pressure" json:"bloodPressure" validate:"oneof=-1 0 1"`
	BloodSugar    int       `gorm:"column:blood_sugar" json:"bloodSugar" validate:"oneof=-1 0 1"`
	Symptoms      TagList   `gorm:"column:symptoms;type:text" json:"symptoms"`
	Diseases      TagList   `gorm:"column:diseases;type:text" json:"diseases"`
	CreatedTime   time.Time `gorm:"column:created_time" json:"createdTime"`
}

func (HealthProfile) TableName() string {
	return "health_profile"
}
