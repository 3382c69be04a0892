// Package ai forwards free-text questions to a hosted chat-completion model
// speaking the OpenAI wire format (Groq by default) and returns the answer
// with the model's <think> reasoning removed.
package ai
