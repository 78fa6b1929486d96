package vault

import (
	"strings"
	"testing"
)

func TestParseFrontmatterTagList(t *testing.T) {
	content := "---\ntags:\n  - 要約対象\n  - daily\n---\nbody text\n"

	fm, body := ParseFrontmatter(content)
	if len(fm.Tags) != 2 || fm.Tags[0] != "要約対象" || fm.Tags[1] != "daily" {
		t.Errorf("Tags = %v, want [要約対象 daily]", fm.Tags)
	}
	if !strings.Contains(body, "body text") {
		t.Errorf("Body = %q, want it to contain the note body", body)
	}
	if strings.Contains(body, "tags:") {
		t.Errorf("Body still contains frontmatter: %q", body)
	}
}

func TestParseFrontmatterScalarTag(t *testing.T) {
	content := "---\ntags: 要約対象\n---\nbody\n"

	fm, _ := ParseFrontmatter(content)
	if len(fm.Tags) != 1 || fm.Tags[0] != "要約対象" {
		t.Errorf("Tags = %v, want [要約対象]", fm.Tags)
	}
}

func TestParseFrontmatterTemplateSyntax(t *testing.T) {
	// Templater placeholders are not valid YAML and must not break
	// tag detection.
	content := "---\ndate: {{date:YYYY-MM-DD}}\ntags: [要約対象]\n---\nbody\n"

	fm, _ := ParseFrontmatter(content)
	if !fm.HasTag("要約対象") {
		t.Errorf("Expected tag to survive template neutralization, got %v", fm.Tags)
	}
}

func TestParseFrontmatterBrokenYAML(t *testing.T) {
	content := "---\ntags: [unclosed\n---\nbody\n"

	fm, body := ParseFrontmatter(content)
	if len(fm.Tags) != 0 {
		t.Errorf("Expected no tags from broken frontmatter, got %v", fm.Tags)
	}
	if body != content {
		t.Error("Broken frontmatter should leave content unchanged")
	}
}

func TestParseFrontmatterAbsent(t *testing.T) {
	content := "just a note\nwith no frontmatter\n"

	fm, body := ParseFrontmatter(content)
	if len(fm.Tags) != 0 {
		t.Errorf("Expected no tags, got %v", fm.Tags)
	}
	if body != content {
		t.Error("Content without frontmatter should pass through unchanged")
	}
}

func TestParseFrontmatterUnterminated(t *testing.T) {
	content := "---\ntags: [要約対象]\nnote body with no closing fence\n"

	fm, body := ParseFrontmatter(content)
	if len(fm.Tags) != 0 {
		t.Errorf("Expected no tags from unterminated frontmatter, got %v", fm.Tags)
	}
	if body != content {
		t.Error("Unterminated frontmatter should leave content unchanged")
	}
}

func TestHasTag(t *testing.T) {
	fm := Frontmatter{Tags: []string{"daily", "要約対象"}}

	if !fm.HasTag("要約対象") {
		t.Error("Expected HasTag to find exact tag")
	}
	if fm.HasTag("要約") {
		t.Error("HasTag must not match tag prefixes")
	}
	if fm.HasTag("Daily") {
		t.Error("HasTag must be case-sensitive")
	}
}
