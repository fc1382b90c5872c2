// Lumen explains git history and drafts commit messages with AI providers.
//
// Answers stream to stdout as they arrive. Supported providers are OpenAI,
// Phind (the default, no key needed), Groq, Claude and a local Ollama
// server.
//
// Usage:
//
//	lumen explain HEAD                     # explain a commit
//	lumen explain HEAD -q "why?"           # ask a question about it
//	lumen explain --diff                   # explain working tree changes
//	lumen explain --diff --staged          # explain staged changes
//	lumen list                             # pick a recent commit to explain
//	lumen draft -c "context"               # draft a commit message
//	lumen -p claude -k $KEY draft          # choose provider and key
//
// Provider, key and model can also come from LUMEN_AI_PROVIDER,
// LUMEN_API_KEY and LUMEN_AI_MODEL, or from the config file managed by
// "lumen config".
package main
