// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import "strings"

// repairJSON fixes the malformation small instruction models produce most
// often: a missing opening quote before an object key, as in `{relevance": 7}`.
// Valid JSON passes through unchanged.
func repairJSON(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 16)

	runes := []rune(s)
	i := 0
	for i < len(runes) {
		ch := runes[i]
		out.WriteRune(ch)
		i++

		if ch != '{' && ch != ',' {
			continue
		}

		// Skip whitespace after { or ,
		for i < len(runes) && (runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t') {
			out.WriteRune(runes[i])
			i++
		}

		// A bare word here that runs into `":` lost its opening quote.
		if i >= len(runes) || runes[i] == '"' || !isLetter(runes[i]) {
			continue
		}
		start := i
		for i < len(runes) && (isLetter(runes[i]) || runes[i] == '_') {
			i++
		}
		if i < len(runes) && runes[i] == '"' {
			out.WriteRune('"')
		}
		out.WriteString(string(runes[start:i]))
	}

	return out.String()
}
