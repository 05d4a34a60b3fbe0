package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"learnpath/backend/config"
	"learnpath/backend/llm"
	"learnpath/backend/metrics"
	"learnpath/backend/models"
	"learnpath/backend/utils"
)

// ErrGeneration marks a live roadmap generation that failed or produced an unusable
// curriculum.
var ErrGeneration = errors.New("roadmap generation failed")

const roadmapSystemPrompt = "You return only JSON. No prose."

func roadmapUserPrompt(courseName string) string {
	return fmt.Sprintf("You are an expert course planner. Create a structured learning roadmap for %s with Beginner, Intermediate, Advanced levels. "+
		"For each level, list 4-6 topics with a short description and estimated hours. "+
		"Return ONLY valid JSON with shape: { levels: [{ level: string, topics: [{ title: string, description: string, estimatedHours: number }] }], totalHours: number }",
		courseName)
}

type RoadmapService struct {
	cred      config.Credential
	completer llm.Completer
	timeout   time.Duration
	log       *utils.Logger
}

func NewRoadmapService(cred config.Credential, completer llm.Completer, timeout time.Duration, log *utils.Logger) *RoadmapService {
	return &RoadmapService{
		cred:      cred,
		completer: completer,
		timeout:   timeout,
		log:       log.With("service", "RoadmapService"),
	}
}

// Live reports whether Synthesize will call the completion provider.
func (s *RoadmapService) Live() bool {
	return s.completer != nil && s.cred.Usable()
}

// Synthesize builds a leveled curriculum for courseName. Without a usable credential it
// returns DemoPlan. A live attempt that fails is an error; it never falls back to the demo.
func (s *RoadmapService) Synthesize(ctx context.Context, courseName string) (models.Plan, error) {
	if !s.Live() {
		s.log.Info("using demo roadmap", "course", courseName)
		metrics.RoadmapGenerations.WithLabelValues("demo", "ok").Inc()
		return DemoPlan(courseName), nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.completer.Complete(ctx, llm.Request{
		System:      roadmapSystemPrompt,
		User:        roadmapUserPrompt(courseName),
		Temperature: 0.2,
	})
	metrics.ObserveProvider("completion", start, err)
	if err != nil {
		s.log.Error("roadmap completion failed", "course", courseName, "error", err)
		metrics.RoadmapGenerations.WithLabelValues("live", "error").Inc()
		return models.Plan{}, utils.NewProviderError("Failed to generate roadmap", fmt.Errorf("%w: %v", ErrGeneration, err))
	}

	plan, err := ParsePlan(raw)
	if err != nil {
		s.log.Error("roadmap completion unusable", "course", courseName, "error", err)
		metrics.RoadmapGenerations.WithLabelValues("live", "invalid").Inc()
		return models.Plan{}, utils.NewProviderError("Failed to generate roadmap", fmt.Errorf("%w: %v", ErrGeneration, err))
	}
	metrics.RoadmapGenerations.WithLabelValues("live", "ok").Inc()
	return plan, nil
}

// ParsePlan decodes a completion into a Plan. Text around the outermost JSON object
// (code fences, reasoning preambles) is ignored. Every level needs a name and at least one
// titled topic; a missing totalHours is derived from the topic hours.
func ParsePlan(raw string) (models.Plan, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return models.Plan{}, errors.New("no JSON object in completion")
	}

	var plan models.Plan
	if err := json.Unmarshal([]byte(raw[start:end+1]), &plan); err != nil {
		return models.Plan{}, fmt.Errorf("decode roadmap: %w", err)
	}
	if len(plan.Levels) == 0 {
		return models.Plan{}, errors.New("roadmap has no levels")
	}
	for i := range plan.Levels {
		lvl := &plan.Levels[i]
		lvl.Level = strings.TrimSpace(lvl.Level)
		if lvl.Level == "" {
			return models.Plan{}, fmt.Errorf("level %d has no name", i)
		}
		if len(lvl.Topics) == 0 {
			return models.Plan{}, fmt.Errorf("level %q has no topics", lvl.Level)
		}
		for j := range lvl.Topics {
			lvl.Topics[j].Title = strings.TrimSpace(lvl.Topics[j].Title)
			if lvl.Topics[j].Title == "" {
				return models.Plan{}, fmt.Errorf("level %q topic %d has no title", lvl.Level, j)
			}
		}
	}
	if plan.TotalHours <= 0 {
		plan.TotalHours = plan.SumHours()
	}
	return plan, nil
}
