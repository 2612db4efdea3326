package annotations

import (
	"strings"
	"unicode"
)

// Tag is one "@name body" line of a documentation block. The body keeps
// continuation lines joined with newlines.
type Tag struct {
	Name string
	Body string
}

// DocBlock is a parsed documentation comment.
type DocBlock struct {
	Summary     string
	Description string
	Tags        []Tag
}

// Parse parses a documentation comment. Comment markers ("//", "/*", "*/"
// and leading "*") are stripped, so both raw source comments and the
// cleaned text of an ast.CommentGroup are accepted.
//
// The summary is the first paragraph, ending at a blank line or at a line
// ending with a period. The description is the text that follows, up to
// the first tag line.
func Parse(comment string) *DocBlock {
	lines := stripMarkers(comment)

	block := &DocBlock{}

	var text []string
	i := 0
	for ; i < len(lines); i++ {
		if isTagLine(lines[i]) {
			break
		}
		text = append(text, lines[i])
	}

	block.Summary, block.Description = splitSummary(text)

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if isTagLine(line) {
			name, body := splitTag(line[1:])
			block.Tags = append(block.Tags, Tag{Name: name, Body: body})
			continue
		}
		if line == "" {
			continue
		}

		last := &block.Tags[len(block.Tags)-1]
		if last.Body == "" {
			last.Body = line
		} else {
			last.Body += "\n" + line
		}
	}

	return block
}

// TagsByName returns the tags with the given name, in order.
func (b *DocBlock) TagsByName(name string) []Tag {
	if b == nil {
		return nil
	}

	var tags []Tag
	for _, t := range b.Tags {
		if t.Name == name {
			tags = append(tags, t)
		}
	}

	return tags
}

// First returns the body of the first tag with the given name.
func (b *DocBlock) First(name string) (string, bool) {
	if b == nil {
		return "", false
	}

	for _, t := range b.Tags {
		if t.Name == name {
			return t.Body, true
		}
	}

	return "", false
}

// Has reports whether the block carries a tag with the given name.
func (b *DocBlock) Has(name string) bool {
	_, ok := b.First(name)
	return ok
}

func isTagLine(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) > 1 && line[0] == '@' && !unicode.IsSpace(rune(line[1]))
}

// splitTag splits "name body" at the first whitespace.
func splitTag(s string) (string, string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}

	return s[:i], strings.TrimSpace(s[i:])
}

func stripMarkers(comment string) []string {
	raw := strings.Split(strings.ReplaceAll(comment, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))

	for _, line := range raw {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "//"):
			line = strings.TrimPrefix(line, "//")
		case strings.HasPrefix(line, "/**"):
			line = strings.TrimPrefix(line, "/**")
		case strings.HasPrefix(line, "/*"):
			line = strings.TrimPrefix(line, "/*")
		}

		line = strings.TrimSpace(strings.TrimSuffix(line, "*/"))

		if strings.HasPrefix(line, "*") {
			line = strings.TrimPrefix(line, "*")
		}

		lines = append(lines, strings.TrimSpace(line))
	}

	return lines
}

func splitSummary(lines []string) (string, string) {
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}

	end := len(lines)
	for i, line := range lines {
		if line == "" {
			end = i
			break
		}
		if strings.HasSuffix(line, ".") {
			end = i + 1
			break
		}
	}

	summary := strings.Join(lines[:end], " ")
	description := strings.TrimSpace(strings.Join(lines[end:], "\n"))

	return summary, description
}
