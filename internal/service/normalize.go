package service

import (
	"encoding/json"
	"strings"

	"github.com/pageza/medidiet/backend/internal/models"
)

// UserHealthInfo is the prompt-ready description of a health profile. It
// lives for one request and is never persisted.
type UserHealthInfo struct {
	Symptom         string
	Gender          string
	Age             int // 0 means unknown
	OtherConditions string
}

// NormalizeHealthInfo converts a raw profile into prompt fields. It never
// fails: absent data becomes loc.None and unparseable tags become
// loc.Malformed.
//
// Gender code 1 is male and every other code, including unknown ones, is
// female. Callers that need stricter handling must check the code first.
func NormalizeHealthInfo(profile *models.HealthProfile, loc Locale) UserHealthInfo {
	gender := loc.Female
	if profile.Gender == models.GenderMale {
		gender = loc.Male
	}

	return UserHealthInfo{
		Symptom:         describeTags(profile.Symptoms, loc),
		Gender:          gender,
		Age:             profile.Age,
		OtherConditions: describeConditions(profile, loc),
	}
}

func describeTags(raw models.TagList, loc Locale) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return loc.None
	}

	var tags []string
	if err := json.Unmarshal([]byte(text), &tags); err != nil {
		return loc.Malformed
	}

	kept := tags[:0]
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			kept = append(kept, tag)
		}
	}
	if len(kept) == 0 {
		return loc.None
	}
	return strings.Join(kept, loc.ListDelimiter)
}

func describeConditions(profile *models.HealthProfile, loc Locale) string {
	var conditions []string
	if profile.BloodPressure == models.VitalHigh {
		conditions = append(conditions, loc.HighBloodPressure)
	}
	if profile.BloodSugar == models.VitalHigh {
		conditions = append(conditions, loc.HighBloodSugar)
	}

	diseases := describeTags(profile.Diseases, loc)
	if diseases != loc.None && diseases != loc.Malformed {
		conditions = append(conditions, diseases)
	}

	if len(conditions) == 0 {
		return loc.None
	}
	return strings.Join(conditions, loc.ListDelimiter)
}
