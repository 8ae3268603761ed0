// Package gemini implements generation.Generator with Google's Gemini API
// through the google.golang.org/genai client.
//
// Prompts are rendered from a text/template (a built-in default or a file
// named in configuration). Calls that fail transiently are retried with
// exponential backoff and jitter; responses blocked by safety filters or
// lacking content fail immediately. The response text is parsed with
// generation.ParseUsernames.
package gemini
