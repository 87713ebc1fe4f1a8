package transport

// ChatMessage is one turn in the conversation history sent to the remote
// model.
type ChatMessage struct {
	Role         string        `json:"role"` // system, user, assistant, function
	Content      string        `json:"content,omitempty"`
	Name         string        `json:"name,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
}

// FunctionCall is the structured payload the model emits instead of free
// text. Arguments is a raw JSON string and may arrive truncated.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatRequest is the JSON body POSTed to the completion endpoint.
type ChatRequest struct {
	Messages     []ChatMessage `json:"messages"`
	Model        string        `json:"model"`
	Temperature  float64       `json:"temperature"`
	MaxTokens    int           `json:"max_tokens"`
	Stream       bool          `json:"stream"`
	UserContext  interface{}   `json:"userContext,omitempty"`
	FunctionCall string        `json:"function_call,omitempty"` // "auto"
}

// ChatResponse is the chat-completion envelope. Streaming chunks share the
// shape with Delta populated instead of Message.
type ChatResponse struct {
	ID       string                 `json:"id"`
	Object   string                 `json:"object"`
	Created  int64                  `json:"created"`
	Model    string                 `json:"model"`
	Choices  []Choice               `json:"choices"`
	Usage    *Usage                 `json:"usage,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Choice is one completion candidate.
type Choice struct {
	Index        int          `json:"index"`
	Message      *ChatMessage `json:"message,omitempty"`
	Delta        *Delta       `json:"delta,omitempty"`
	FinishReason string       `json:"finish_reason,omitempty"`
}

// Delta carries the incremental fragments of a streamed choice.
type Delta struct {
	Role         string        `json:"role,omitempty"`
	Content      string        `json:"content,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
}

// Usage reports token accounting when the server includes it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorBody is the structured error payload returned on 4xx/429/5xx.
type ErrorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	RequestID  string `json:"requestId,omitempty"`
	RetryAfter int64  `json:"retryAfter,omitempty"` // seconds
	Limit      int64  `json:"limit,omitempty"`
	Remaining  int64  `json:"remaining,omitempty"`
}

// StreamFrame is one unit of a streamed response: either an incremental
// delta or the terminal Done marker. Fragments arrive in order and must be
// concatenated positionally.
type StreamFrame struct {
	Role         string
	Content      string
	FunctionCall *FunctionCall
	Done         bool
}

// FirstFunctionCall returns the function call of the first choice, or nil.
func (r *ChatResponse) FirstFunctionCall() *FunctionCall {
	if len(r.Choices) == 0 || r.Choices[0].Message == nil {
		return nil
	}
	return r.Choices[0].Message.FunctionCall
}

// FirstContent returns the text content of the first choice, or "".
func (r *ChatResponse) FirstContent() string {
	if len(r.Choices) == 0 || r.Choices[0].Message == nil {
		return ""
	}
	return r.Choices[0].Message.Content
}
