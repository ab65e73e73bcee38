package config

// Default returns a configuration populated with repository defaults. Paths
// are left unexpanded; normalize resolves them.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:       "~/.local/share/verbatim",
			TranscriptDir: "~/verbatim/transcripts",
		},
		LLM: LLM{
			BaseURL:        "https://openrouter.ai/api/v1/chat/completions",
			Model:          "google/gemini-3-flash-preview",
			TimeoutSeconds: 60,
		},
		Extraction: Extraction{
			Workers:   4,
			Passes:    2,
			BatchSize: 12,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
