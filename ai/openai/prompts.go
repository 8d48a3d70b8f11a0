package openai

import "fmt"

const relevancePromptTemplate = `Rate how relevant the given document is to the given query and return the rating as JSON.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or acknowledgment.
Start your response directly with the opening brace { and end with the closing brace }.
Your output must exactly follow this schema:

{"relevance": <number>}

Rules:
- Relevance is a number from 0 (completely unrelated) to 10 (directly and fully answers the query).
- Judge whether the document contains the information the query asks for, not whether it merely shares vocabulary with it.
- A document that mentions the query's topic in passing but answers a different question rates in the 3-5 range.
- A document about an unrelated topic rates 0-2 even if a few words overlap.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Query: "what did plato think about mathematics"
Document: "Plato held that mathematical objects exist in a realm of abstract forms, independent of human minds."
Output:
{"relevance": 9}

Example:
Query: "what did plato think about mathematics"
Document: "Aristotle was a student of Plato and founded the Lyceum in Athens."
Output:
{"relevance": 2}`

// buildRelevanceInput formats the query and document for the scoring prompt.
// Long documents are clamped so the prompt stays inside the model's context.
func buildRelevanceInput(query, document string) string {
	return fmt.Sprintf("Query: %q\nDocument: %q", query, clampText(document, 4000))
}
