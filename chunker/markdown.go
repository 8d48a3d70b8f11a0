package chunker

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the parsed YAML frontmatter of a Markdown document.
// Tags are pulled out of the generic fields because they drive tag
// search; everything else stays as strings.
type Frontmatter struct {
	Tags   []string
	Fields map[string]string
}

// section is a heading-delimited region of a Markdown document.
type section struct {
	heading string
	text    string
}

// parseFrontmatter splits a leading YAML frontmatter block ("---" fenced)
// off the document. Documents without frontmatter pass through unchanged.
// A malformed block is left in the body rather than rejected; notes are
// hand-edited files and a broken header should not block ingestion.
func parseFrontmatter(raw string) (Frontmatter, string) {
	fm := Frontmatter{Fields: map[string]string{}}

	if !strings.HasPrefix(raw, "---\n") && raw != "---" {
		return fm, raw
	}

	rest := strings.TrimPrefix(raw, "---\n")
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, raw
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(block), &parsed); err != nil {
		return fm, raw
	}

	for key, value := range parsed {
		if key == "tags" {
			fm.Tags = toStringSlice(value)
			continue
		}
		fm.Fields[key] = toString(value)
	}
	return fm, body
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		// "tags: a, b" shorthand
		var out []string
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// splitSections splits a Markdown body at ATX headings. Text before the
// first heading becomes a section with an empty heading. A document with
// no headings is a single section.
func splitSections(body string) []section {
	var sections []section
	var current section
	var buf strings.Builder

	flush := func() {
		current.text = strings.TrimSpace(buf.String())
		if current.text != "" {
			sections = append(sections, current)
		}
		buf.Reset()
	}

	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}
		// Headings inside code fences are literal text.
		if !inFence && isATXHeading(trimmed) {
			flush()
			current = section{heading: strings.TrimSpace(strings.TrimLeft(trimmed, "#"))}
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	flush()

	return sections
}

func isATXHeading(line string) bool {
	if !strings.HasPrefix(line, "#") {
		return false
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	return level <= 6 && level < len(line) && line[level] == ' '
}
