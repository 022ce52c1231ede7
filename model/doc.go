// Package model defines the provider-agnostic text completion abstraction the
// engine uses for optional narrative generation, plus a deterministic mock.
//
// Providers (Anthropic, OpenAI, Gemini) live in sub-packages and implement
// Completer so higher layers remain decoupled from vendor SDKs. Completion is
// always optional: callers fall back to deterministic output when a provider
// fails or exceeds its timeout.
package model
