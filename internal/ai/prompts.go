package ai

import (
	"fmt"
	"strings"

	"github.com/dori/brainy/internal/model"
)

var personaPrompts = map[model.CoachingStyle]string{
	model.CoachSupportive: "You are a warm, empathetic life coach. Validate feelings first, then gently suggest small steps.",
	model.CoachStrict:     "You are a no-nonsense drill sergeant productivity expert. Be direct, concise, and action-oriented.",
	model.CoachAnalytical: "You are a data-driven strategist. Focus on logic, efficiency, and metrics.",
	model.CoachZen:        "You are a mindfulness guru. Focus on peace, balance, and breathing.",
}

// PersonaPrompt returns the system instruction for a coaching style.
// Unknown styles get the supportive one.
func PersonaPrompt(style model.CoachingStyle) string {
	if p, ok := personaPrompts[style]; ok {
		return p
	}
	return personaPrompts[model.CoachSupportive]
}

func brainDumpInstruction(style model.CoachingStyle) string {
	return PersonaPrompt(style) + `

Analyze the user's "brain dump" text.
1. Summarize their mental state and key issues in 2-3 sentences.
2. Extract actionable tasks (max 3).
3. Suggest ONE immediate, tiny next step (under 5 mins).

Return JSON ONLY in this format:
{
  "summary": "string",
  "tasks": [{"title": "string", "priority": "high|medium|low"}],
  "nextStep": "string"
}`
}

const breakDownInstruction = `Break down this big goal into 3-5 small, actionable steps.
Return JSON ONLY: [{"title": "string", "priority": "high|medium"}]`

// AutomationKind selects a content generator
type AutomationKind string

const (
	AutomationEmail AutomationKind = "email"
	AutomationStudy AutomationKind = "study"
	AutomationPlan  AutomationKind = "plan"
)

var automationInstructions = map[AutomationKind]string{
	AutomationEmail: "Write a professional, concise email based on this context:",
	AutomationStudy: "Create a structured study plan with time blocks for:",
	AutomationPlan:  "Create a project execution plan with phases for:",
}

// ParseAutomationKind validates a kind name
func ParseAutomationKind(s string) (AutomationKind, error) {
	k := AutomationKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := automationInstructions[k]; !ok {
		return "", fmt.Errorf("unknown automation %q (want email, study or plan)", s)
	}
	return k, nil
}

const coachInstruction = "You are an expert life coach."

func coachingPrompt(moods []model.Mood, energy int, persona model.Persona) string {
	names := make([]string, len(moods))
	for i, m := range moods {
		names[i] = string(m)
	}
	return fmt.Sprintf(`User Persona: %s
Recent Moods: %s
Current Energy: %d/10

Give a short, personalized coaching tip (max 2 sentences) to optimize their day.`,
		persona, strings.Join(names, ", "), energy)
}

func sideHustlePrompt(interests string) string {
	return fmt.Sprintf("Generate 4 specific, profitable side hustle ideas for someone interested in: %s. Return as a JSON array of strings only.", interests)
}

func teamReportPrompt(team string) string {
	return fmt.Sprintf("Generate a professional weekly status report template for a team named %q. Include sections for Highlights, Blockers, and Next Steps.", team)
}
