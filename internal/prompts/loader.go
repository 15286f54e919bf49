// Package prompts holds the prompt templates used for entity tagging and the assistant.
// Templates live in JSON files (key -> template) embedded at compile time and use
// {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// File names an embedded prompt file.
type File string

// Prompt files.
const (
	EntitiesFile  File = "entities.json"
	AssistantFile File = "assistant.json"
)

//go:embed *.json
var promptFiles embed.FS

// catalog is parsed once on first use.
var catalog = sync.OnceValues(func() (map[File]map[string]string, error) {
	entries, err := promptFiles.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt files: %w", err)
	}

	out := make(map[File]map[string]string, len(entries))
	for _, entry := range entries {
		data, err := promptFiles.ReadFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", entry.Name(), err)
		}
		var templates map[string]string
		if err := json.Unmarshal(data, &templates); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", entry.Name(), err)
		}
		out[File(entry.Name())] = templates
	}
	return out, nil
})

func templates(file File) (map[string]string, error) {
	all, err := catalog()
	if err != nil {
		return nil, err
	}
	t, ok := all[file]
	if !ok {
		return nil, fmt.Errorf("unknown prompt file %s", file)
	}
	return t, nil
}

// Get returns the raw template stored under key in file.
func Get(file File, key string) (string, error) {
	t, err := templates(file)
	if err != nil {
		return "", err
	}
	prompt, ok := t[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, file)
	}
	return prompt, nil
}

// Render returns the template under key with its placeholders filled from data.
// Placeholders without a value are left as they are.
func Render(file File, key string, data map[string]string) (string, error) {
	template, err := Get(file, key)
	if err != nil {
		return "", err
	}
	return Fill(template, data), nil
}

// Fill replaces {{.Key}} placeholders in template with the values in data.
func Fill(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(data))
	for _, key := range slices.Sorted(maps.Keys(data)) {
		pairs = append(pairs, "{{."+key+"}}", data[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Keys returns the template keys of file in sorted order.
func Keys(file File) ([]string, error) {
	t, err := templates(file)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(t)), nil
}
