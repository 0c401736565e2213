package ai

import (
	"fmt"

	"github.com/reclaimhq/reclaim/internal/categories"
)

const classifyPromptTemplate = `You are cataloging items handed in to an airport lost-and-found desk.
Look at the photograph and choose the single best matching category from this list:

%s

Respond with JSON only, no surrounding text:
{"category": "<label from the list>"}

If nothing fits, use "other".`

const describePromptTemplate = `You are cataloging a lost %s handed in to an airport lost-and-found desk.
Describe the item in the photograph. Respond with JSON only, no surrounding text:

{
  "item_type": "<specific item type>",
  "color": "<dominant colors>",
  "brand": "<visible brand or maker, empty string if none>",
  "distinguishing_features": "<stickers, damage, engravings, contents, anything that helps an owner identify it>",
  "condition": "<new, worn, damaged, etc.>"
}

Use empty strings for attributes you cannot determine. Do not guess brands.`

const scorePromptTemplate = `Rate how likely these two descriptions refer to the same physical item.

Description A (catalog entry):
%s

Description B (owner's claim):
%s

Respond with JSON only, no surrounding text:
{"score": <number between 0.0 and 1.0>}

1.0 means certainly the same item, 0.0 means certainly different.`

func classifyPrompt() string {
	return fmt.Sprintf(classifyPromptTemplate, categories.PromptList())
}

func describePrompt(category categories.Category) string {
	return fmt.Sprintf(describePromptTemplate, category)
}

func scorePrompt(a, b string) string {
	return fmt.Sprintf(scorePromptTemplate, a, b)
}
