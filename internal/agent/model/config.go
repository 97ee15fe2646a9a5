package model

// ================ Config ================
type ConversationConfig struct {
	TTL   string `envconfig:"CONVERSATION_TTL" default:"15m"`
	Tools struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"10"`
	}
}

type EngineModelConfig struct {
	Model       string  `envconfig:"ENGINE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"ENGINE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"ENGINE_TEMPERATURE" default:"1.0"`
}

type PromptConfig struct {
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"Logis"`
	BusinessLine  string `envconfig:"PROMPT_BUSINESS_LINE" default:"lubricantes, químicos, GLP y accesorios industriales"`
	RecallLimit   int    `envconfig:"PROMPT_RECALL_LIMIT" default:"3"`
}
