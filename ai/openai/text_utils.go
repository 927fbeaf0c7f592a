package openai

import "strings"

// sectionPriority is the order in which paper sections are kept when the
// text must be reduced to fit the model's input budget. Earlier sections
// carry more summary-relevant signal.
var sectionPriority = []string{
	"abstract",
	"introduction",
	"conclusion",
	"methods",
	"results",
	"discussion",
}

// prepareText reduces paper text to at most maxChars. Texts under the cap
// pass through untouched. Longer texts are rebuilt from recognizable
// sections in priority order; when no sections are found, the head and
// tail of the document are kept (60/40 split).
func prepareText(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}

	sections := splitSections(text)
	if len(sections) > 0 {
		var builder strings.Builder
		for _, name := range sectionPriority {
			body, ok := sections[name]
			if !ok {
				continue
			}
			header := strings.ToUpper(name) + ":\n"
			if builder.Len()+len(header)+len(body)+2 > maxChars {
				remaining := maxChars - builder.Len() - len(header) - 2
				if remaining > 200 {
					builder.WriteString(header)
					builder.WriteString(body[:remaining])
					builder.WriteString("\n\n")
				}
				break
			}
			builder.WriteString(header)
			builder.WriteString(body)
			builder.WriteString("\n\n")
		}
		if builder.Len() > 0 {
			return strings.TrimSpace(builder.String())
		}
	}

	// No usable section structure. Keep the head and the tail, where the
	// abstract and the conclusion usually live.
	headLen := maxChars * 60 / 100
	tailLen := maxChars - headLen - len("\n...\n")
	return text[:headLen] + "\n...\n" + text[len(text)-tailLen:]
}

// splitSections finds known section headings and returns heading -> body.
// A heading is a line consisting of the section name, optionally prefixed
// with a number and optionally followed by a colon.
func splitSections(text string) map[string]string {
	lines := strings.Split(text, "\n")
	sections := map[string]string{}

	current := ""
	var body strings.Builder

	flush := func() {
		if current == "" {
			return
		}
		if trimmed := strings.TrimSpace(body.String()); trimmed != "" {
			if _, exists := sections[current]; !exists {
				sections[current] = trimmed
			}
		}
		body.Reset()
	}

	for _, line := range lines {
		if name, ok := matchHeading(line); ok {
			flush()
			current = name
			continue
		}
		if current != "" {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()

	return sections
}

// matchHeading reports whether the line is a known section heading.
func matchHeading(line string) (string, bool) {
	candidate := strings.ToLower(strings.TrimSpace(line))
	candidate = strings.TrimSuffix(candidate, ":")

	// Strip a leading section number like "1." or "3".
	fields := strings.Fields(candidate)
	if len(fields) == 2 && isSectionNumber(fields[0]) {
		candidate = fields[1]
	}

	for _, name := range sectionPriority {
		if candidate == name {
			return name, true
		}
	}
	return "", false
}

func isSectionNumber(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
