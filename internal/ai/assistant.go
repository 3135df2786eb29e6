package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dori/brainy/internal/logging"
	"github.com/dori/brainy/internal/model"
)

// Fallback content, used whenever the model cannot give a usable answer
const (
	FallbackSummary    = "I've organized your thoughts locally (AI Offline)."
	FallbackNextStep   = "Check your task list."
	FallbackTaskTitle  = "Review notes"
	FallbackAutomation = "AI Offline: Unable to generate content."
	FallbackCoaching   = "Take a deep breath and focus on one thing at a time."

	extractedDescription = "AI Extracted"
	maxExtractedTasks    = 3
)

// FallbackIdeas are the side hustle ideas used offline
var FallbackIdeas = []string{"Freelancing", "Content Creation", "Consulting", "Digital Products"}

var errOffline = errors.New("offline")

// Responder is what the assistant needs from the gateway
type Responder interface {
	GetResponse(ctx context.Context, prompt, instruction string) (string, error)
}

// BrainDumpResult is the triage of a brain dump
type BrainDumpResult struct {
	Summary  string
	NextStep string
	Tasks    []model.Task
}

// Assistant implements the AI features. Every method is total: failures are
// logged and replaced by fallback content, and callers cannot tell the two
// apart.
type Assistant struct {
	r     Responder
	log   *logging.Logger
	newID func() string
	now   func() time.Time
}

// NewAssistant wraps r. log may be nil.
func NewAssistant(r Responder, log *logging.Logger) *Assistant {
	if log == nil {
		log = logging.Nop()
	}
	return &Assistant{
		r:     r,
		log:   log.Named("assistant"),
		newID: model.NewID,
		now:   time.Now,
	}
}

// AnalyzeBrainDump summarises free text and extracts up to three tasks
func (a *Assistant) AnalyzeBrainDump(ctx context.Context, text string, style model.CoachingStyle) BrainDumpResult {
	ctx = logging.WithOperation(ctx, "analyze_brain_dump")

	type payload struct {
		Summary string `json:"summary"`
		Tasks   []struct {
			Title    string `json:"title"`
			Priority string `json:"priority"`
		} `json:"tasks"`
		NextStep string `json:"nextStep"`
	}

	raw, err := a.ask(ctx, text, brainDumpInstruction(style))
	if err == nil {
		var p payload
		p, err = decodeJSON[payload](raw)
		if err == nil && strings.TrimSpace(p.Summary) == "" {
			err = &ParseError{Raw: raw, Err: fmt.Errorf("missing summary")}
		}
		if err == nil {
			res := BrainDumpResult{
				Summary:  strings.TrimSpace(p.Summary),
				NextStep: strings.TrimSpace(p.NextStep),
			}
			if res.NextStep == "" {
				res.NextStep = FallbackNextStep
			}
			for _, t := range p.Tasks {
				if len(res.Tasks) == maxExtractedTasks {
					break
				}
				if title := strings.TrimSpace(t.Title); title != "" {
					task := a.task(title, model.ParsePriority(t.Priority))
					task.Description = extractedDescription
					res.Tasks = append(res.Tasks, task)
				}
			}
			return res
		}
	}

	a.fallback(ctx, err)
	return BrainDumpResult{
		Summary:  FallbackSummary,
		NextStep: FallbackNextStep,
		Tasks:    []model.Task{a.task(FallbackTaskTitle, model.PriorityMedium)},
	}
}

// BreakDownGoal turns a goal into a handful of tasks
func (a *Assistant) BreakDownGoal(ctx context.Context, goal string) []model.Task {
	ctx = logging.WithOperation(ctx, "break_down_goal")

	type step struct {
		Title    string `json:"title"`
		Priority string `json:"priority"`
	}

	raw, err := a.ask(ctx, goal, breakDownInstruction)
	if err == nil {
		var steps []step
		steps, err = decodeJSON[[]step](raw)
		if err == nil {
			var tasks []model.Task
			for _, s := range steps {
				if title := strings.TrimSpace(s.Title); title != "" {
					tasks = append(tasks, a.task(title, model.ParsePriority(s.Priority)))
				}
			}
			if len(tasks) > 0 {
				return tasks
			}
			err = &ParseError{Raw: raw, Err: fmt.Errorf("no steps")}
		}
	}

	a.fallback(ctx, err)
	return []model.Task{a.task("Plan for "+goal, model.PriorityHigh)}
}

// GenerateAutomation drafts an email, study plan or project plan
func (a *Assistant) GenerateAutomation(ctx context.Context, kind AutomationKind, details string) string {
	ctx = logging.WithOperation(ctx, "generate_automation")

	instruction, ok := automationInstructions[kind]
	if !ok {
		a.fallback(ctx, fmt.Errorf("unknown automation %q", kind))
		return FallbackAutomation
	}
	text, err := a.ask(ctx, details, instruction)
	if err != nil {
		a.fallback(ctx, err)
		return FallbackAutomation
	}
	return strings.TrimSpace(text)
}

// LifeCoaching returns a short tip for the user's recent moods and energy
func (a *Assistant) LifeCoaching(ctx context.Context, moods []model.Mood, energy int, persona model.Persona) string {
	ctx = logging.WithOperation(ctx, "life_coaching")

	text, err := a.ask(ctx, coachingPrompt(moods, energy, persona), coachInstruction)
	if err != nil {
		a.fallback(ctx, err)
		return FallbackCoaching
	}
	return strings.TrimSpace(text)
}

// SideHustleIdeas suggests ways to earn from the user's interests
func (a *Assistant) SideHustleIdeas(ctx context.Context, interests string) []string {
	ctx = logging.WithOperation(ctx, "side_hustle_ideas")

	raw, err := a.ask(ctx, sideHustlePrompt(interests), "")
	if err == nil {
		var ideas []string
		ideas, err = decodeJSON[[]string](raw)
		if err == nil {
			var out []string
			for _, idea := range ideas {
				if idea = strings.TrimSpace(idea); idea != "" {
					out = append(out, idea)
				}
			}
			if len(out) > 0 {
				return out
			}
			err = &ParseError{Raw: raw, Err: fmt.Errorf("no ideas")}
		}
	}

	a.fallback(ctx, err)
	return append([]string(nil), FallbackIdeas...)
}

// TeamReport drafts a weekly status report template for a team
func (a *Assistant) TeamReport(ctx context.Context, team string) string {
	ctx = logging.WithOperation(ctx, "team_report")

	text, err := a.ask(ctx, teamReportPrompt(team), "")
	if err != nil {
		a.fallback(ctx, err)
		return FallbackTeamReport(team)
	}
	return strings.TrimSpace(text)
}

// FallbackTeamReport is the report template used offline
func FallbackTeamReport(team string) string {
	return fmt.Sprintf(`Weekly Status Report: %s

Highlights
-

Blockers
-

Next Steps
- `, team)
}

// ask calls the responder and treats the offline sentinel and blank answers
// as failures so every feature falls back the same way.
func (a *Assistant) ask(ctx context.Context, prompt, instruction string) (string, error) {
	if a.r == nil {
		return "", errOffline
	}
	text, err := a.r.GetResponse(ctx, prompt, instruction)
	if err != nil {
		return "", err
	}
	if text == OfflineMessage {
		return "", errOffline
	}
	if strings.TrimSpace(text) == "" {
		return "", &ParseError{Raw: text, Err: fmt.Errorf("empty payload")}
	}
	return text, nil
}

func (a *Assistant) fallback(ctx context.Context, err error) {
	var pe *ParseError
	switch {
	case errors.Is(err, errOffline):
		a.log.Debug(ctx, "offline, using fallback")
	case errors.As(err, &pe):
		a.log.Warn(ctx, "model returned unusable content, using fallback", zap.Error(err))
	default:
		a.log.Warn(ctx, "model unavailable, using fallback", zap.Error(err))
	}
}

func (a *Assistant) task(title string, p model.Priority) model.Task {
	return model.Task{
		ID:        a.newID(),
		Title:     title,
		Priority:  p,
		Status:    model.StatusTodo,
		CreatedAt: a.now(),
	}
}

// Online reports whether the underlying responder has a credential
func (a *Assistant) Online() bool {
	o, ok := a.r.(interface{ Online() bool })
	return ok && o.Online()
}
