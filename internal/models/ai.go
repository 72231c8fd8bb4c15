package models

import "time"

type AIRole string

const (
	RoleUser      AIRole = "user"
	RoleAssistant AIRole = "assistant"
)

// AIMessage is one turn of an assistant conversation
type AIMessage struct {
	ID        string    `json:"id" yaml:"id"`
	Content   string    `json:"content" yaml:"content"`
	Role      AIRole    `json:"role" yaml:"role"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Status    string    `json:"status,omitempty" yaml:"status,omitempty"` // sending, sent, error
}

// AIConversation groups ordered assistant messages
type AIConversation struct {
	ID        string      `json:"id" yaml:"id"`
	Title     string      `json:"title" yaml:"title"`
	Messages  []AIMessage `json:"messages" yaml:"messages"`
	CreatedAt time.Time   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt" yaml:"updatedAt"`
}

type AIFeatures struct {
	SmartReply        bool `json:"smartReply" yaml:"smartReply"`
	MessageAnalysis   bool `json:"messageAnalysis" yaml:"messageAnalysis"`
	ContentGeneration bool `json:"contentGeneration" yaml:"contentGeneration"`
	CustomerInsights  bool `json:"customerInsights" yaml:"customerInsights"`
}

// AISettings configures the assistant
type AISettings struct {
	ModelID         string     `json:"modelId" yaml:"modelId"`
	SystemPrompt    string     `json:"systemPrompt" yaml:"systemPrompt"`
	WelcomeMessage  string     `json:"welcomeMessage" yaml:"welcomeMessage"`
	Temperature     float64    `json:"temperature" yaml:"temperature"`
	MaxTokens       int        `json:"maxTokens" yaml:"maxTokens"`
	AutoReply       bool       `json:"autoReply" yaml:"autoReply"`
	EnabledFeatures AIFeatures `json:"enabledFeatures" yaml:"enabledFeatures"`
}

type PromptCategory string

const (
	CategoryMarketing       PromptCategory = "marketing"
	CategoryCustomerService PromptCategory = "customer-service"
	CategorySales           PromptCategory = "sales"
	CategoryContent         PromptCategory = "content"
	CategoryOther           PromptCategory = "other"
)

// AIPromptTemplate is a saved prompt with {variable} placeholders
type AIPromptTemplate struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Prompt      string         `json:"prompt" yaml:"prompt"`
	Category    PromptCategory `json:"category" yaml:"category"`
	Variables   []string       `json:"variables,omitempty" yaml:"variables,omitempty"`
	CreatedAt   time.Time      `json:"createdAt" yaml:"createdAt"`
	LastUsed    *time.Time     `json:"lastUsed,omitempty" yaml:"lastUsed,omitempty"`
}
