package internal

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a user's transcript. Entries are never modified
// after they are appended.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistory struct {
	Messages []Message `json:"messages"`
}

// ChatRequest is the body of POST /chat/. Pointers tell a missing field
// apart from an empty one; only missing fields are rejected.
type ChatRequest struct {
	UserID      *string        `json:"user_id" binding:"required"`
	Message     *string        `json:"message" binding:"required"`
	Theme       string         `json:"theme"`
	ModelChoice OptionalString `json:"model_choice"`
}

// OptionalString remembers whether a JSON field was sent at all. An explicit
// null counts as sent, with an empty Value.
type OptionalString struct {
	Value string
	Set   bool
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// Ptr returns nil when the field was absent.
func (o OptionalString) Ptr() *string {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

type ChatResponse struct {
	Response string `json:"response"`
}

// --- Uploads ---
type UploadResponse struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

type UploadedFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type WelcomeResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
