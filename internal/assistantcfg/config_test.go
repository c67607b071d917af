package assistantcfg

import (
	"os"
	"path/filepath"
	"testing"

	"daymate/internal/trigger"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
content_api_url: http://content.internal:8080
fallbacks:
  start: "커스텀 시작 메시지"
classifier:
  - category: work
    keywords: ["업무", "코딩"]
  - category: exercise
    keywords: ["클라이밍"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ContentAPIURL != "http://content.internal:8080" {
		t.Fatalf("content URL = %q", cfg.ContentAPIURL)
	}
	if cfg.Fallbacks["start"] != "커스텀 시작 메시지" {
		t.Fatalf("fallbacks = %v", cfg.Fallbacks)
	}

	rules := cfg.ClassifierRules()
	if len(rules) != 2 {
		t.Fatalf("got %d classifier rules, want 2", len(rules))
	}
	if rules[0].Category != trigger.CategoryWork || rules[1].Category != trigger.CategoryExercise {
		t.Fatalf("rule categories wrong: %+v", rules)
	}

	c := trigger.NewClassifier(rules)
	if got := c.Classify("실내 클라이밍"); got != trigger.CategoryExercise {
		t.Fatalf("custom keyword not applied: %s", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "fallbacks: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestEmptyClassifierKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `content_api_url: http://localhost:9000`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ClassifierRules() != nil {
		t.Fatal("empty classifier table should return nil to keep defaults")
	}
}

func TestIncompleteRulesSkipped(t *testing.T) {
	path := writeConfig(t, `
classifier:
  - category: work
  - keywords: ["고아 키워드"]
  - category: meal
    keywords: ["식사"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rules := cfg.ClassifierRules()
	if len(rules) != 1 || rules[0].Category != trigger.CategoryMeal {
		t.Fatalf("incomplete rules not filtered: %+v", rules)
	}
}
