// Package provider implements the per-provider circuit breaker that turns
// a fixed priority list of LLM providers into a fault-tolerant routing
// target. The routing layer asks it which provider is safe to call and
// reports outages back; after a cooldown the failed provider is retried.
package provider

import (
	"fmt"
	"strings"
)

// ID identifies an LLM provider. IDs are matched case-insensitively.
type ID string

const (
	OpenAI    ID = "openai"
	Anthropic ID = "anthropic"
	Gemini    ID = "gemini"
	GLM       ID = "glm"
)

// Priority is the fixed fallback order. Fallback scans it front to back.
var Priority = []ID{OpenAI, Anthropic, Gemini, GLM}

// Parse resolves a provider name case-insensitively against the known set.
func Parse(name string) (ID, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return OpenAI, nil
	case "anthropic":
		return Anthropic, nil
	case "gemini":
		return Gemini, nil
	case "glm":
		return GLM, nil
	}
	return "", fmt.Errorf("unknown provider %q (expected one of: openai, anthropic, gemini, glm)", name)
}

// DefaultModel returns the model used when the operator has not picked one.
func DefaultModel(id ID) string {
	switch id {
	case OpenAI:
		return "gpt-4.1-mini"
	case Anthropic:
		return "claude-3-5-sonnet-latest"
	case Gemini:
		return "gemini-2.0-flash"
	case GLM:
		return "glm-4.7"
	}
	return ""
}

// CredentialSource answers whether a provider has credentials configured.
// Backed by the configuration layer; the tracker only reads through it.
type CredentialSource interface {
	Configured(id ID) bool
}
