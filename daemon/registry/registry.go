// Package registry resolves the set of services this daemon monitors.
package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/steelburn/ai-stack-build/daemon/logger"
)

// Descriptor is the immutable description of one monitored service.
type Descriptor struct {
	Key      string `json:"key" validate:"required"`
	Name     string `json:"name" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
	Optional bool   `json:"optional"`
}

var validate = validator.New()

// defaultDescriptors mirrors the hardcoded fallback of the original AI-stack
// monitor, preserved as an ordered slice (not a map) so iteration order is
// deterministic the same way Python's insertion-ordered dict was.
var defaultDescriptors = []Descriptor{
	{Key: "dify-api", Name: "Dify API", URL: "http://dify-api:8080/health"},
	{Key: "dify-web", Name: "Dify Web", URL: "http://dify-web:3000/health"},
	{Key: "dify-worker", Name: "Dify Worker", URL: "http://dify-worker:8080/health"},
	{Key: "ollama", Name: "Ollama", URL: "http://ollama:11434/api/version"},
	{Key: "litellm", Name: "LiteLLM", URL: "http://litellm:4000/health"},
	{Key: "mem0", Name: "Mem0", URL: "http://mem0:8000/health"},
	{Key: "n8n", Name: "N8N", URL: "http://n8n:5678/healthz"},
	{Key: "flowise", Name: "Flowise", URL: "http://flowise:3000/api/v1/health"},
	{Key: "openwebui", Name: "OpenWebUI", URL: "http://openwebui:8080/health"},
	{Key: "qdrant", Name: "Qdrant", URL: "http://qdrant:6333/health"},
}

// jsonDescriptor is the on-disk shape for a SERVICES_CONFIG entry.
type jsonDescriptor struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	Optional bool   `json:"optional"`
}

// Load resolves the monitored service set, in order: the SERVICES_CONFIG
// JSON file, then paired SERVICE_<N>_NAME/SERVICE_<N>_URL environment
// variables, then the compiled-in defaults. Each candidate source is
// validated as a whole; a source that fails validation is treated as a
// miss and the next source is tried, exactly as a missing/unreadable file
// would be.
func Load() ([]Descriptor, error) {
	if path := os.Getenv("SERVICES_CONFIG"); path != "" {
		if descriptors, err := loadFromFile(path); err != nil {
			logger.Warn("SERVICES_CONFIG %s could not be used: %v", path, err)
		} else if len(descriptors) > 0 {
			logger.LogConfigLoad("services", path, true, "")
			return descriptors, nil
		}
	}

	if descriptors := loadFromEnv(); len(descriptors) > 0 {
		logger.LogConfigLoad("services", "environment", true, "")
		return descriptors, nil
	}

	logger.LogConfigLoad("services", "defaults", true, "")
	return validateAll(cloneDefaults())
}

func cloneDefaults() []Descriptor {
	out := make([]Descriptor, len(defaultDescriptors))
	copy(out, defaultDescriptors)
	return out
}

// loadFromFile decodes the JSON object at path preserving the key order it
// appears in, since encoding/json's map decoding does not.
func loadFromFile(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	keys, values, err := decodeOrdered(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	descriptors := make([]Descriptor, 0, len(keys))
	for _, key := range keys {
		v := values[key]
		descriptors = append(descriptors, Descriptor{
			Key:      key,
			Name:     v.Name,
			URL:      v.URL,
			Optional: v.Optional,
		})
	}
	return validateAll(descriptors)
}

// decodeOrdered streams the top-level JSON object's tokens to recover key
// insertion order, then unmarshals each value normally.
func decodeOrdered(r io.Reader) ([]string, map[string]jsonDescriptor, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected a JSON object at top level")
	}

	var keys []string
	values := make(map[string]jsonDescriptor)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		var v jsonDescriptor
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("decode value for %q: %w", key, err)
		}

		keys = append(keys, key)
		values[key] = v
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, nil, err
	}

	return keys, values, nil
}

// loadFromEnv scans SERVICE_1_NAME/SERVICE_1_URL, SERVICE_2_NAME/..., etc,
// stopping at the first missing index. Order is naturally preserved since
// indices are scanned ascending.
func loadFromEnv() []Descriptor {
	var descriptors []Descriptor
	for index := 1; ; index++ {
		name := os.Getenv("SERVICE_" + strconv.Itoa(index) + "_NAME")
		url := os.Getenv("SERVICE_" + strconv.Itoa(index) + "_URL")
		if name == "" || url == "" {
			break
		}
		descriptors = append(descriptors, Descriptor{
			Key:  "service_" + strconv.Itoa(index),
			Name: name,
			URL:  url,
		})
	}

	validated, err := validateAll(descriptors)
	if err != nil {
		logger.Warn("environment-sourced service descriptors failed validation: %v", err)
		return nil
	}
	return validated
}

func validateAll(descriptors []Descriptor) ([]Descriptor, error) {
	seen := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		if err := validate.Struct(d); err != nil {
			return nil, fmt.Errorf("descriptor %q: %w", d.Key, err)
		}
		if _, dup := seen[d.Key]; dup {
			return nil, fmt.Errorf("duplicate service key %q", d.Key)
		}
		seen[d.Key] = struct{}{}
	}
	return descriptors, nil
}

// Keys returns the descriptor keys in their registry order, for callers
// that only need stable iteration without the full struct.
func Keys(descriptors []Descriptor) []string {
	keys := make([]string, len(descriptors))
	for i, d := range descriptors {
		keys[i] = d.Key
	}
	return keys
}

// sortedCopy is used only by tests that need to compare sets regardless of
// source-specific ordering guarantees.
func sortedCopy(descriptors []Descriptor) []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
