package vault

import (
	"regexp"
	"strings"
)

var (
	listItemStart = regexp.MustCompile(`^(\s*)-\s+`)
	leadingSpace  = regexp.MustCompile(`^(\s*)`)
)

// ExtractTaggedBlocks returns the markdown list-item blocks in body
// that contain the target tag, joined by blank lines. A block is a
// list-item line plus the lines that belong to it: blank lines, more
// deeply indented lines, and non-item continuation lines at the item's
// indent or deeper. Used when the tag appears inline rather than in
// the frontmatter, so only the tagged items get summarized.
func ExtractTaggedBlocks(body, target string) string {
	pattern := tagPattern(target)
	if !pattern.MatchString(body) {
		return ""
	}

	lines := strings.Split(body, "\n")
	var blocks []string

	i := 0
	for i < len(lines) {
		m := listItemStart.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}

		baseIndent := len(m[1])
		j := i + 1
		for j < len(lines) {
			next := lines[j]
			nextIndent := len(leadingSpace.FindStringSubmatch(next)[1])
			nextIsItem := listItemStart.MatchString(next)

			if strings.TrimSpace(next) == "" {
				// blank line inside the item
			} else if nextIndent > baseIndent {
				// nested content
			} else if !nextIsItem && nextIndent >= baseIndent {
				// wrapped text belonging to the item
			} else {
				break
			}
			j++
		}

		block := strings.Join(lines[i:j], "\n")
		if pattern.MatchString(block) {
			blocks = append(blocks, block)
		}
		i = j
	}

	return strings.Join(blocks, "\n\n")
}
