package openai

import (
	"fmt"

	"jobmate-backend/internal/agents"
)

const (
	comprehensionSystemPrompt = `You are an expert evaluator. Analyze the document content and the user's summary of it, then provide a comprehension score from 0 to 100 and detailed feedback. Respond with a JSON object of the form {"score": <int>, "good_points": [<string>], "improvement_points": [<string>], "missed_points": [<string>]}. Respond with JSON only.`

	questionsSystemPrompt = `You are a senior colleague. Based on the document content and the user's summary, create 2-3 insightful questions that probe deeper understanding. Respond with a JSON object of the form {"questions": [<string>]}. Respond with JSON only.`

	actionItemsSystemPrompt = `You are a helpful project manager. Based on the document content and the user's summary, suggest concrete next actions with priorities. Respond with a JSON object of the form {"next_actions": [{"action": <string>, "priority": <string>}]}. Respond with JSON only.`
)

func systemPromptFor(role agents.Role) string {
	switch role {
	case agents.RoleComprehension:
		return comprehensionSystemPrompt
	case agents.RoleQuestions:
		return questionsSystemPrompt
	case agents.RoleActionItems:
		return actionItemsSystemPrompt
	default:
		return ""
	}
}

func userPrompt(req agents.AnalysisRequest) string {
	return fmt.Sprintf("Document content:\n%s\n\nUser summary:\n%s", req.Content, req.UserSummary)
}
