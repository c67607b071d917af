// Package assistantcfg loads the assistant's tunable settings
// (content-service URL, fallback strings, classifier keyword table)
// from a YAML file and hot-reloads them on change.
package assistantcfg

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"daymate/internal/trigger"
)

// Config is the assistant.yaml shape. All fields are optional; missing
// values keep the compiled-in defaults.
type Config struct {
	ContentAPIURL string            `yaml:"content_api_url"`
	Fallbacks     map[string]string `yaml:"fallbacks"`
	Classifier    []RuleConfig      `yaml:"classifier"`
}

// RuleConfig is one classifier row in the YAML file
type RuleConfig struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assistant config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse assistant config: %w", err)
	}
	return &cfg, nil
}

// ClassifierRules converts the YAML table into classifier rules. An
// empty table returns nil so the caller keeps the default rules.
func (c *Config) ClassifierRules() []trigger.ClassifierRule {
	if len(c.Classifier) == 0 {
		return nil
	}
	rules := make([]trigger.ClassifierRule, 0, len(c.Classifier))
	for _, rc := range c.Classifier {
		if rc.Category == "" || len(rc.Keywords) == 0 {
			continue
		}
		rules = append(rules, trigger.ClassifierRule{
			Category: trigger.Category(rc.Category),
			Keywords: rc.Keywords,
		})
	}
	return rules
}

// Watch watches the config file and invokes onChange with each freshly
// parsed config. Watching the containing directory is more reliable
// than watching the file itself; rapid editor writes are debounced.
func Watch(path string, onChange func(*Config)) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️  Failed to create config watcher: %v", err)
		return
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		log.Printf("⚠️  Failed to resolve %s: %v", path, err)
		watcher.Close()
		return
	}
	dir := filepath.Dir(absPath)
	filename := filepath.Base(absPath)

	if err := watcher.Add(dir); err != nil {
		log.Printf("⚠️  Failed to watch %s: %v", dir, err)
		watcher.Close()
		return
	}

	log.Printf("👁️  Watching %s for changes (hot-reload enabled)", path)

	var debounce *time.Timer
	const debounceDuration = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDuration, func() {
				cfg, err := Load(absPath)
				if err != nil {
					log.Printf("⚠️  Assistant config reload failed: %v", err)
					return
				}
				log.Printf("🔄 Assistant config reloaded from %s", path)
				onChange(cfg)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  Config watcher error: %v", err)
		}
	}
}
