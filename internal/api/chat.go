package api

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply is the body of every /chat response, success or failure.
type ChatReply struct {
	Reply string `json:"reply"`
}
