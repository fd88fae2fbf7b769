package llm

import (
	"strings"

	"github.com/codehaven/collab-server/internal/domain"
)

// BuildSystemPrompt assembles the coding-assistant system prompt from
// the editor context attached to a question.
func BuildSystemPrompt(q domain.Question) string {
	language := q.Language
	if language == "" {
		language = "javascript"
	}
	activeFile := q.FilePath
	if activeFile == "" {
		activeFile = "Unknown"
	}

	var b strings.Builder
	b.WriteString("You are \"AI Assistant\", a professional coding assistant integrated into a collaborative coding environment.\n\n")
	b.WriteString("You excel at code analysis and debugging, code generation, code review, problem solving, learning support and architecture guidance.\n\n")

	b.WriteString("CURRENT CONTEXT:\n")
	b.WriteString("- Programming language: " + language + "\n")
	b.WriteString("- Active file: " + activeFile + "\n")
	if q.SelectedCode != "" {
		b.WriteString("- Selected code:\n```" + language + "\n" + q.SelectedCode + "\n```\n")
	}
	b.WriteString("\n")

	b.WriteString("RESPONSE GUIDELINES:\n")
	b.WriteString("- Be precise and accurate in all technical advice\n")
	b.WriteString("- Provide working code solutions with clear explanations\n")
	b.WriteString("- Format code blocks properly with language tags\n")
	b.WriteString("- Structure responses with headers and lists where it helps readability\n")
	b.WriteString("- Focus on the specific question asked rather than providing generic responses\n\n")

	b.WriteString("Always provide specific, focused responses that directly address the user's question with clear examples when relevant.")
	return b.String()
}
