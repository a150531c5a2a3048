package openai

import "fmt"

const taggerResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "label": {"type": "string", "enum": ["GPE", "ORG", "PRODUCT"]},
          "text": {"type": "string"}
        },
        "required": ["label", "text"],
        "additionalProperties": false
      }
    },
    "noun_chunks": {
      "type": "array",
      "items": {"type": "string"}
    },
    "tokens": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {"type": "string"},
          "lemma": {"type": "string"},
          "pos": {"type": "string"},
          "stop": {"type": "boolean"}
        },
        "required": ["text", "lemma", "pos", "stop"],
        "additionalProperties": false
      }
    }
  },
  "required": ["entities", "noun_chunks", "tokens"],
  "additionalProperties": false
}`

const taggerPromptTemplate = `Annotate the given text like a part-of-speech tagger and named entity
recognizer would, and return the analysis as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace { and
end with the closing brace }. Your output must exactly follow this schema:

%s

Rules:
- "entities": named entities only. Label "GPE" for countries, cities and regions,
  "ORG" for organizations, agencies and missions, "PRODUCT" for named products and
  data products. Copy the span text exactly as it appears in the input.
- "noun_chunks": every noun phrase of the input, in order of occurrence.
- "tokens": one entry per word of the input, in order. "lemma" is the lowercase
  dictionary form, "pos" is the coarse part of speech (NOUN, VERB, ADJ, ADV, PRON,
  ADP, DET, NUM, X), "stop" is true for common function words.
- Do not invent entities that are not in the text.
- The JSON must parse without errors; no trailing commas, no extra keys, and no
  extraneous text outside the object.`

// buildTaggerPrompt returns the system prompt for the tagging model.
func buildTaggerPrompt() string {
	return fmt.Sprintf(taggerPromptTemplate, taggerResponseSchema)
}
