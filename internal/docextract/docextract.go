// Package docextract implements the description extractor: it scans a
// source file's text for its first top-level /** ... */ doc block and
// reduces it to a single-line, prefix-limited, ellipsized description,
// the shape a Node's Description field holds. No AST is required for
// this: the doc-block scanner only needs to track whether the current
// byte is inside a string or template literal, so a /** occurring
// inside one (e.g. in a string constant) is not mistaken for a doc
// comment.
package docextract

import (
	"bytes"
	"strings"
)

// Extract returns text's first doc block, collapsed to one line with
// any @tag line whose tag appears in dropTags removed, truncated to
// limit runes (ellipsized if cut). ok is false if limit <= 0 or no doc
// block is found.
func Extract(text string, limit int, dropTags []string) (desc string, ok bool) {
	if limit <= 0 {
		return "", false
	}
	block, found := firstDocBlock([]byte(text))
	if !found {
		return "", false
	}
	line := collapse(block, dropTags)
	if line == "" {
		return "", false
	}
	return truncate(line, limit), true
}

// firstDocBlock scans content for the first "/**...*/" run that is not
// nested inside a single-quoted, double-quoted, or template-literal
// string, honoring backslash escapes within those.
func firstDocBlock(content []byte) (string, bool) {
	var quote byte
	for i := 0; i < len(content); i++ {
		c := content[i]
		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '/':
			if i+2 < len(content) && content[i+1] == '*' && content[i+2] == '*' {
				rest := content[i+3:]
				end := bytes.Index(rest, []byte("*/"))
				if end == -1 {
					return "", false
				}
				return string(content[i : i+3+end+2]), true
			}
		}
	}
	return "", false
}

// collapse strips the block comment delimiters and leading "*" margin
// from each line, drops any "@tag ..." line whose tag is in dropTags,
// and joins the remaining lines with single spaces.
func collapse(block string, dropTags []string) string {
	drop := make(map[string]bool, len(dropTags))
	for _, t := range dropTags {
		drop[strings.ToLower(strings.TrimPrefix(t, "@"))] = true
	}

	body := strings.TrimSuffix(strings.TrimPrefix(block, "/**"), "*/")
	var words []string
	for _, ln := range strings.Split(body, "\n") {
		ln = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ln), "*"))
		if ln == "" {
			continue
		}
		if strings.HasPrefix(ln, "@") {
			fields := strings.Fields(ln)
			tag := strings.ToLower(strings.TrimPrefix(fields[0], "@"))
			if drop[tag] {
				continue
			}
		}
		words = append(words, ln)
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// truncate cuts s to at most limit runes, replacing the final three
// with "..." when the cut is lossy.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
