// Package speech composes a spoken reply from an agent turn response,
// resolving device ids to display names and summarizing partial-failure
// execution results into natural-language Chinese phrasing.
package speech

// AgentAction is one device action the agent asked to execute or proposed.
type AgentAction struct {
	DeviceID string                 `json:"deviceId"`
	ID       string                 `json:"id"`
	Action   string                 `json:"action"`
	Params   map[string]interface{} `json:"params"`
}

// ActionResult is one entry of an AgentResult's per-action outcome list.
type ActionResult struct {
	OK       bool                   `json:"ok"`
	DeviceID string                 `json:"deviceId"`
	Action   string                 `json:"action"`
	Error    string                 `json:"error"`
	Message  string                 `json:"message"`
	Result   map[string]interface{} `json:"result"`
}

// AgentResult wraps the per-action outcomes of an "executed" turn.
type AgentResult struct {
	Results []ActionResult `json:"results"`
}

// AgentOutput is the shape of a single agent.turn response, matching
// api_gateway's /v1/agent/turn reply.
type AgentOutput struct {
	Type    string        `json:"type"`
	Message string        `json:"message"`
	Actions []AgentAction `json:"actions"`
	Result  *AgentResult  `json:"result"`
}

// Device is the minimal per-device record needed to resolve a display name.
type Device struct {
	ID   string
	Name string
}
