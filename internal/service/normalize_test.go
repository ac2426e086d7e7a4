package service

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/medidiet/backend/internal/models"
)

func TestNormalizeHealthInfoGender(t *testing.T) {
	tests := []struct {
		name   string
		gender int
		want   string
	}{
		{name: "male", gender: 1, want: "male"},
		{name: "female", gender: 0, want: "female"},
		{name: "unknown code is female", gender: 7, want: "female"},
		{name: "negative code is female", gender: -1, want: "female"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NormalizeHealthInfo(&models.HealthProfile{Gender: tt.gender}, LocaleEN)
			assert.Equal(t, tt.want, info.Gender)
		})
	}
}

func TestNormalizeHealthInfoTags(t *testing.T) {
	tests := []struct {
		name string
		tags models.TagList
		want string
	}{
		{name: "absent", tags: "", want: "none"},
		{name: "whitespace", tags: "   ", want: "none"},
		{name: "empty array", tags: "[]", want: "none"},
		{name: "null", tags: "null", want: "none"},
		{name: "blank entries", tags: `["", "  "]`, want: "none"},
		{name: "single", tags: `["insomnia"]`, want: "insomnia"},
		{name: "ordered join", tags: `["insomnia","fatigue"," dizziness "]`, want: "insomnia, fatigue, dizziness"},
		{name: "unterminated", tags: `["insomnia"`, want: "none (malformed)"},
		{name: "object", tags: `{"a":1}`, want: "none (malformed)"},
		{name: "numbers", tags: `[1,2]`, want: "none (malformed)"},
		{name: "bare word", tags: `insomnia`, want: "none (malformed)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NormalizeHealthInfo(&models.HealthProfile{Symptoms: tt.tags}, LocaleEN)
			assert.Equal(t, tt.want, info.Symptom)
		})
	}
}

func TestNormalizeHealthInfoMalformedNeverPanics(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		raw := models.TagList("[" + faker.Sentence(faker.Number(1, 8)))
		assert.NotPanics(t, func() {
			info := NormalizeHealthInfo(&models.HealthProfile{Symptoms: raw, Diseases: raw}, LocaleEN)
			assert.Equal(t, "none (malformed)", info.Symptom, "input %q", raw)
			assert.Equal(t, "none", info.OtherConditions, "input %q", raw)
		})
	}
}

func TestNormalizeHealthInfoConditions(t *testing.T) {
	tests := []struct {
		name    string
		profile models.HealthProfile
		want    string
	}{
		{
			name:    "nothing applies",
			profile: models.HealthProfile{BloodPressure: 0, BloodSugar: -1},
			want:    "none",
		},
		{
			name:    "high blood pressure only",
			profile: models.HealthProfile{BloodPressure: 1, Diseases: "[]"},
			want:    "high blood pressure",
		},
		{
			name:    "both vitals then diseases",
			profile: models.HealthProfile{BloodPressure: 1, BloodSugar: 1, Diseases: `["gastritis","asthma"]`},
			want:    "high blood pressure, high blood sugar, gastritis, asthma",
		},
		{
			name:    "low vitals are not conditions",
			profile: models.HealthProfile{BloodPressure: -1, BloodSugar: -1, Diseases: `["gastritis"]`},
			want:    "gastritis",
		},
		{
			name:    "malformed diseases omitted",
			profile: models.HealthProfile{BloodSugar: 1, Diseases: `[gastritis`},
			want:    "high blood sugar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NormalizeHealthInfo(&tt.profile, LocaleEN)
			assert.Equal(t, tt.want, info.OtherConditions)
		})
	}
}

func TestNormalizeHealthInfoChineseLocale(t *testing.T) {
	profile := &models.HealthProfile{
		Gender:        1,
		Age:           60,
		BloodPressure: 1,
		BloodSugar:    1,
		Symptoms:      `["失眠","乏力"]`,
		Diseases:      `["胃炎"]`,
	}

	info := NormalizeHealthInfo(profile, LocaleZH)
	assert.Equal(t, "男", info.Gender)
	assert.Equal(t, "失眠、乏力", info.Symptom)
	assert.Equal(t, "高血压、高血糖、胃炎", info.OtherConditions)
	assert.Equal(t, 60, info.Age)

	assert.Equal(t, "无（格式异常）", NormalizeHealthInfo(&models.HealthProfile{Symptoms: "{"}, LocaleZH).Symptom)
}
