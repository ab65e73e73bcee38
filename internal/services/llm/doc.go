// Package llm provides the chat-completion client behind the quote
// extraction capability.
//
// The pipeline treats this boundary as "submit prompt, receive completion":
// every failure the capability can legitimately produce surfaces as a
// *ProviderError with a kind of timeout, quota, or malformed. Anything else
// escaping this package is a programming defect, and the orchestrator aborts
// the run rather than degrading yield.
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.ExtractQuotes: send system/user prompts, receive the raw completion.
// Client.HealthCheck: verify the API key and model are usable.
// DecodeJSON: tolerant decoding of model output (code fences, prose-wrapped
// objects, streaming-schema fallbacks).
//
// # Retry Behaviour
//
// The client retries HTTP 408/429/5xx and network timeouts with exponential
// backoff (base 1s, max 10s, up to 4 attempts by default), honouring
// Retry-After. Context cancellation aborts retries immediately.
package llm
