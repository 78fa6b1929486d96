package vault

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML block fenced by --- at the top of a note.
// Only the fields this pipeline cares about are decoded.
type Frontmatter struct {
	Tags []string
}

type rawFrontmatter struct {
	// Obsidian allows `tags: foo` as well as a list.
	Tags interface{} `yaml:"tags"`
}

var templateSyntax = regexp.MustCompile(`\{\{[^}]+\}\}`)

// ParseFrontmatter splits a note into its frontmatter and body. Notes
// without a frontmatter fence, or with one that fails to parse, yield
// an empty Frontmatter and the content unchanged — a broken header
// never disqualifies a note.
//
// Templater-style `{{...}}` syntax inside the header is replaced with a
// placeholder before parsing, since it is not valid YAML.
func ParseFrontmatter(content string) (Frontmatter, string) {
	if !strings.HasPrefix(content, "---") {
		return Frontmatter{}, content
	}

	end := strings.Index(content[3:], "---")
	if end == -1 {
		return Frontmatter{}, content
	}
	end += 3

	header := templateSyntax.ReplaceAllString(content[3:end], "TEMPLATE_VALUE")
	body := content[end+3:]

	var raw rawFrontmatter
	if err := yaml.Unmarshal([]byte(header), &raw); err != nil {
		return Frontmatter{}, content
	}

	return Frontmatter{Tags: normalizeTags(raw.Tags)}, body
}

// normalizeTags accepts the tag field as a scalar, a list, or absent.
func normalizeTags(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []interface{}:
		var tags []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		return nil
	}
}

// HasTag reports whether the frontmatter tag list contains target,
// case-sensitive.
func (f Frontmatter) HasTag(target string) bool {
	for _, t := range f.Tags {
		if t == target {
			return true
		}
	}
	return false
}
