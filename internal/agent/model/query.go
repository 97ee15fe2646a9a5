package model

// QueryInput represents one incoming request for the agent.
type QueryInput struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// QueryOutput carries the final answer text and the session it belongs to.
type QueryOutput struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}
