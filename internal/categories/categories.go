// Package categories defines the closed vocabulary of item categories shared
// by the vision classifier and claim intake. Classification output and claim
// categories both resolve against this list, so the two sides of matching
// always speak the same labels.
package categories

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is a label from the closed item vocabulary.
type Category string

// The closed vocabulary, in classifier prompt order. Other is the fallback
// for items that fit no specific label.
const (
	Wallet     Category = "wallet"
	Handbag    Category = "handbag"
	Backpack   Category = "backpack"
	Suitcase   Category = "suitcase"
	Phone      Category = "phone"
	Laptop     Category = "laptop"
	Tablet     Category = "tablet"
	Headphones Category = "headphones"
	Camera     Category = "camera"
	Watch      Category = "watch"
	Jewelry    Category = "jewelry"
	Glasses    Category = "glasses"
	Keys       Category = "keys"
	Passport   Category = "passport"
	Clothing   Category = "clothing"
	Umbrella   Category = "umbrella"
	Book       Category = "book"
	Toy        Category = "toy"
	Charger    Category = "charger"
	Other      Category = "other"
)

// All lists every category in vocabulary order.
var All = []Category{
	Wallet,
	Handbag,
	Backpack,
	Suitcase,
	Phone,
	Laptop,
	Tablet,
	Headphones,
	Camera,
	Watch,
	Jewelry,
	Glasses,
	Keys,
	Passport,
	Clothing,
	Umbrella,
	Book,
	Toy,
	Charger,
	Other,
}

var index = func() map[string]Category {
	m := make(map[string]Category, len(All))
	for _, c := range All {
		m[string(c)] = c
	}
	return m
}()

// Parse resolves a label to a vocabulary category, case-insensitively and
// ignoring surrounding whitespace. Unknown labels return an error.
func Parse(label string) (Category, error) {
	c, ok := index[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", fmt.Errorf("unknown category: %q", label)
	}
	return c, nil
}

// Normalize resolves a label like Parse, falling back to Other for labels
// outside the vocabulary. Classifier output passes through here so a drifting
// model can never introduce new categories.
func Normalize(label string) Category {
	c, err := Parse(label)
	if err != nil {
		return Other
	}
	return c
}

// Valid reports whether the category is a member of the vocabulary.
func (c Category) Valid() bool {
	_, ok := index[string(c)]
	return ok
}

// String returns the category label.
func (c Category) String() string {
	return string(c)
}

// UnmarshalJSON parses a JSON string into a vocabulary category.
func (c *Category) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}

	parsed, err := Parse(label)
	if err != nil {
		return err
	}

	*c = parsed
	return nil
}

// PromptList renders the vocabulary as a comma-separated list for
// inclusion in model prompts.
func PromptList() string {
	labels := make([]string, len(All))
	for i, c := range All {
		labels[i] = string(c)
	}
	return strings.Join(labels, ", ")
}
