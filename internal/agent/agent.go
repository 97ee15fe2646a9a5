package agent

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/logis-assistant/server/internal/agent/conversations"
	"github.com/logis-assistant/server/internal/agent/model"
	"github.com/logis-assistant/server/internal/agent/prompts"
	"github.com/logis-assistant/server/internal/agent/router"
	"github.com/logis-assistant/server/internal/agent/tools"
	"github.com/logis-assistant/server/internal/feedback"
	logx "github.com/logis-assistant/server/pkg/logger"
)

// FallbackAnswer is returned whenever the reasoning engine produces no
// extractable text: engine failure, malformed output, or an exhausted turn
// budget. The request itself still succeeds.
const FallbackAnswer = "⚠️ No pude generar una respuesta."

// DefaultMaxToolRounds bounds reason/act cycles against a misbehaving engine.
const DefaultMaxToolRounds = 10

// Agent routes each request either to a deterministic answer or to the
// bounded reason/act loop over the fixed action set.
type Agent struct {
	engine        einomodel.BaseChatModel
	registry      *tools.Registry
	responder     *router.Responder
	sessions      *conversations.SessionManager
	feedback      feedback.Store
	promptCfg     model.PromptConfig
	engineModel   string
	maxToolRounds int
}

// Config wires the agent's collaborators. Engine is any eino chat model with
// the action schemas already bound; tests substitute a scripted fake.
type Config struct {
	Engine        einomodel.BaseChatModel
	Registry      *tools.Registry
	Responder     *router.Responder
	Sessions      *conversations.SessionManager
	Feedback      feedback.Store
	Prompt        model.PromptConfig
	EngineModel   string
	MaxToolRounds int
}

func New(cfg Config) *Agent {
	rounds := cfg.MaxToolRounds
	if rounds <= 0 {
		rounds = DefaultMaxToolRounds
	}
	return &Agent{
		engine:        cfg.Engine,
		registry:      cfg.Registry,
		responder:     cfg.Responder,
		sessions:      cfg.Sessions,
		feedback:      cfg.Feedback,
		promptCfg:     cfg.Prompt,
		engineModel:   cfg.EngineModel,
		maxToolRounds: rounds,
	}
}

// loop states of the orchestration machine.
type state int

const (
	stateReason state = iota
	stateAct
	stateAnswer
)

// Respond runs one request to completion: classify, then either answer
// directly from inventory state or delegate to the reasoning engine until it
// produces plain text or the turn budget runs out. Every logical failure
// resolves to answer text; only infrastructure outages return an error.
func (a *Agent) Respond(ctx context.Context, in model.QueryInput) (model.QueryOutput, error) {
	intent := router.Classify(in.Query)
	logx.Debug().Str("session_id", in.SessionID).Str("intent", string(intent)).Msg("request classified")

	var answer string
	var err error
	if intent != router.IntentDelegate {
		answer, err = a.responder.Answer(ctx, intent)
		if err != nil {
			return model.QueryOutput{}, err
		}
	} else {
		answer, err = a.delegate(ctx, in)
		if err != nil {
			return model.QueryOutput{}, err
		}
	}

	a.recordFeedback(ctx, in.Query, answer)
	return model.QueryOutput{SessionID: in.SessionID, Answer: answer}, nil
}

// delegate drives the REASON ⇄ ACT machine for one request.
func (a *Agent) delegate(ctx context.Context, in model.QueryInput) (string, error) {
	recalled := feedback.Recall(ctx, a.feedback, in.Query, a.promptCfg.RecallLimit)
	systemPrompt, err := prompts.RenderSystem(ctx, a.promptCfg, recalled)
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}

	messages, err := a.sessions.SeedDelegate(ctx, in.SessionID, systemPrompt, in.Query)
	if err != nil {
		return "", err
	}
	// Seeded messages include prior turns' answers; only messages produced
	// after this point may become this turn's answer.
	turnStart := len(messages)

	var (
		cur         = stateReason
		last        *schema.Message
		rounds      = 0
		totalCost   = 0.0
		callIDSeq   = 0
		budgetSpent = false
	)

	for cur != stateAnswer {
		switch cur {
		case stateReason:
			out, genErr := a.engine.Generate(ctx, messages)
			if genErr != nil {
				logx.Error().Err(genErr).Str("session_id", in.SessionID).
					Msg("reasoning engine call failed; falling back")
				cur = stateAnswer
				continue
			}
			totalCost += a.logUsage(in.SessionID, out)

			// Some providers omit tool call ids; synthesize them so results
			// can be correlated.
			for i := range out.ToolCalls {
				if out.ToolCalls[i].ID == "" {
					callIDSeq++
					out.ToolCalls[i].ID = fmt.Sprintf("call_%d", callIDSeq)
				}
			}

			messages = append(messages, out)
			last = out

			switch {
			case len(out.ToolCalls) == 0:
				cur = stateAnswer
			case budgetSpent:
				// The engine kept calling tools after the wrap-up notice.
				logx.Warn().Str("session_id", in.SessionID).
					Msg("engine ignored wrap-up notice; falling back")
				cur = stateAnswer
			case rounds >= a.maxToolRounds:
				budgetSpent = true
				messages = append(messages, wrapUpNotice(a.maxToolRounds))
				cur = stateReason
			default:
				cur = stateAct
			}

		case stateAct:
			rounds++
			for _, tc := range last.ToolCalls {
				result, execErr := a.registry.Execute(ctx, tc.Function.Name, tc.Function.Arguments)
				if execErr != nil {
					return "", fmt.Errorf("execute %s: %w", tc.Function.Name, execErr)
				}
				messages = append(messages, &schema.Message{
					Role:       schema.Tool,
					Content:    result,
					ToolCallID: tc.ID,
					ToolName:   tc.Function.Name,
				})
			}
			cur = stateReason
		}
	}

	answer := ExtractAnswer(messages[turnStart:])
	if answer == "" {
		answer = FallbackAnswer
	}

	if totalCost > 0 {
		logx.Debug().Str("session_id", in.SessionID).Float64("total_cost_usd", totalCost).
			Msg("request LLM cost")
	}

	if err := a.sessions.SaveAnswer(ctx, in.SessionID, answer); err != nil {
		logx.Error().Err(err).Str("session_id", in.SessionID).Msg("failed to save answer to session log")
	}
	return answer, nil
}

func wrapUpNotice(maxRounds int) *schema.Message {
	return schema.SystemMessage(fmt.Sprintf(
		"SYSTEM NOTICE: You have reached the maximum tool call limit (%d). "+
			"Please synthesize a helpful response using the information you've already gathered. "+
			"Acknowledge any limitations in your response if you couldn't complete all necessary tool calls.",
		maxRounds,
	))
}

// logUsage logs token usage and returns the USD cost of one engine call.
func (a *Agent) logUsage(sessionID string, out *schema.Message) float64 {
	if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return 0
	}
	usage := out.ResponseMeta.Usage
	inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(a.engineModel))
	logx.Debug().
		Str("session_id", sessionID).
		Str("model", a.engineModel).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
	return totalC
}

// recordFeedback appends the completed turn to the feedback store. Failures
// are logged, never surfaced: recall is advisory.
func (a *Agent) recordFeedback(ctx context.Context, question, answer string) {
	if a.feedback == nil {
		return
	}
	if err := a.feedback.Append(ctx, question, answer); err != nil {
		logx.Warn().Err(err).Msg("failed to record feedback")
	}
}
