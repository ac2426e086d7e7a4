package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLLMResponse matches every failure returned by ParseRecipe.
var ErrInvalidLLMResponse = errors.New("invalid llm response")

var (
	ErrNoJSONObject  = fmt.Errorf("%w: no JSON object found", ErrInvalidLLMResponse)
	ErrMalformedJSON = fmt.Errorf("%w: malformed JSON", ErrInvalidLLMResponse)
)

// MissingFieldError reports a required recipe field that is absent, null or
// empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: required field %q is missing or empty", ErrInvalidLLMResponse, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrInvalidLLMResponse
}

// GeneratedRecipe is the recipe as returned by the model, before mapping.
type GeneratedRecipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Steps        []string `json:"steps"`
	Reason       string   `json:"reason"`
	Taboo        string   `json:"taboo,omitempty"`
	SuitableTime string   `json:"suitableTime,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// ParseRecipe extracts the JSON object spanning the first '{' and the last
// '}' of raw and validates the required fields. It performs no I/O.
func ParseRecipe(raw string) (*GeneratedRecipe, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var recipe GeneratedRecipe
	if err := json.Unmarshal([]byte(payload), &recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Validate checks name, ingredients, steps and reason in that order.
func (r *GeneratedRecipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &MissingFieldError{Field: "name"}
	}
	if blankList(r.Ingredients) {
		return &MissingFieldError{Field: "ingredients"}
	}
	if blankList(r.Steps) {
		return &MissingFieldError{Field: "steps"}
	}
	if strings.TrimSpace(r.Reason) == "" {
		return &MissingFieldError{Field: "reason"}
	}
	return nil
}

func extractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSONObject
	}
	return raw[start : end+1], nil
}

func blankList(items []string) bool {
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			return false
		}
	}
	return true
}
