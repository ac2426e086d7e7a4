package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReply = `{"name":"X","ingredients":["a"],"steps":["s1","s2"],"reason":"r"}`

func TestParseRecipe(t *testing.T) {
	t.Run("minimal valid object", func(t *testing.T) {
		recipe, err := ParseRecipe(validReply)
		require.NoError(t, err)
		assert.Equal(t, &GeneratedRecipe{
			Name:        "X",
			Ingredients: []string{"a"},
			Steps:       []string{"s1", "s2"},
			Reason:      "r",
		}, recipe)
	})

	t.Run("leading and trailing prose", func(t *testing.T) {
		raw := "Sure! Here is your recipe:\n```json\n" + validReply + "\n```\nEnjoy {and rest well}."
		// The last '}' belongs to the trailing prose, so the payload is not valid JSON.
		_, err := ParseRecipe(raw)
		assert.ErrorIs(t, err, ErrMalformedJSON)

		recipe, err := ParseRecipe("Sure! Here is your recipe: " + validReply + " Enjoy.")
		require.NoError(t, err)
		assert.Equal(t, "X", recipe.Name)
	})

	t.Run("optional and unknown fields", func(t *testing.T) {
		raw := `{"name":"Lily congee","ingredients":["lily 20g","rice 100g"],"steps":["soak","simmer"],` +
			`"reason":"calms the mind","taboo":"none","suitableTime":"dinner","tags":["calming"],"calories":320}`
		recipe, err := ParseRecipe(raw)
		require.NoError(t, err)
		assert.Equal(t, "dinner", recipe.SuitableTime)
		assert.Equal(t, []string{"calming"}, recipe.Tags)
		assert.Equal(t, "none", recipe.Taboo)
	})

	t.Run("no braces", func(t *testing.T) {
		_, err := ParseRecipe("I cannot help with that.")
		assert.ErrorIs(t, err, ErrNoJSONObject)
		assert.ErrorIs(t, err, ErrInvalidLLMResponse)
	})

	t.Run("only closing brace", func(t *testing.T) {
		_, err := ParseRecipe(`"name":"X"}`)
		assert.ErrorIs(t, err, ErrNoJSONObject)
	})

	t.Run("inverted braces", func(t *testing.T) {
		_, err := ParseRecipe("} nothing here {")
		assert.ErrorIs(t, err, ErrNoJSONObject)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseRecipe(`{"name":"X","ingredients":["a"}`)
		assert.ErrorIs(t, err, ErrMalformedJSON)
		assert.ErrorIs(t, err, ErrInvalidLLMResponse)
	})

	t.Run("wrong field type", func(t *testing.T) {
		_, err := ParseRecipe(`{"name":"X","ingredients":"a","steps":["s"],"reason":"r"}`)
		assert.ErrorIs(t, err, ErrMalformedJSON)
	})
}

func TestParseRecipeMissingFields(t *testing.T) {
	tests := []struct {
		field string
		raw   string
	}{
		{"name", `{"ingredients":["a"],"steps":["s1"],"reason":"r"}`},
		{"name", `{"name":"  ","ingredients":["a"],"steps":["s1"],"reason":"r"}`},
		{"name", `{"name":null,"ingredients":["a"],"steps":["s1"],"reason":"r"}`},
		{"ingredients", `{"name":"X","steps":["s1"],"reason":"r"}`},
		{"ingredients", `{"name":"X","ingredients":[],"steps":["s1"],"reason":"r"}`},
		{"ingredients", `{"name":"X","ingredients":[""],"steps":["s1"],"reason":"r"}`},
		{"steps", `{"name":"X","ingredients":["a"],"reason":"r"}`},
		{"steps", `{"name":"X","ingredients":["a"],"steps":null,"reason":"r"}`},
		{"reason", `{"name":"X","ingredients":["a"],"steps":["s1"]}`},
		{"reason", `{"name":"X","ingredients":["a"],"steps":["s1"],"reason":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			_, err := ParseRecipe(tt.raw)
			require.Error(t, err)

			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
			assert.Contains(t, err.Error(), tt.field)
			assert.ErrorIs(t, err, ErrInvalidLLMResponse)
		})
	}
}

func TestGeneratedRecipeValidateRoundTrip(t *testing.T) {
	full := func() GeneratedRecipe {
		return GeneratedRecipe{Name: "X", Ingredients: []string{"a"}, Steps: []string{"s"}, Reason: "r"}
	}

	r := full()
	require.NoError(t, r.Validate())
	assert.Equal(t, full(), r)

	clear := map[string]func(*GeneratedRecipe){
		"name":        func(g *GeneratedRecipe) { g.Name = "" },
		"ingredients": func(g *GeneratedRecipe) { g.Ingredients = nil },
		"steps":       func(g *GeneratedRecipe) { g.Steps = nil },
		"reason":      func(g *GeneratedRecipe) { g.Reason = "" },
	}
	for field, drop := range clear {
		t.Run(field, func(t *testing.T) {
			g := full()
			drop(&g)
			var missing *MissingFieldError
			require.ErrorAs(t, g.Validate(), &missing)
			assert.Equal(t, field, missing.Field)
		})
	}
}
