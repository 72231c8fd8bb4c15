package models

import (
	"time"
)

// ClientStatus is the connection state of a managed WhatsApp account
type ClientStatus string

const (
	ClientConnected    ClientStatus = "connected"
	ClientDisconnected ClientStatus = "disconnected"
	ClientScanning     ClientStatus = "scanning"
	ClientError        ClientStatus = "error"
)

// Client represents a managed WhatsApp business account
type Client struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	PhoneNumber string       `json:"phoneNumber" yaml:"phoneNumber"`
	Status      ClientStatus `json:"status" yaml:"status"`
	LastSeen    *time.Time   `json:"lastSeen,omitempty" yaml:"lastSeen,omitempty"`
	Rating      int          `json:"rating" yaml:"rating"` // Health score 0-100
	DailyLimit  int          `json:"dailyLimit" yaml:"dailyLimit"`
	SentToday   int          `json:"sentToday" yaml:"sentToday"`
	Avatar      string       `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	QRCode      string       `json:"qrCode,omitempty" yaml:"qrCode,omitempty"`
}

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignRunning   CampaignStatus = "running"
	CampaignCompleted CampaignStatus = "completed"
	CampaignFailed    CampaignStatus = "failed"
)

// Campaign represents a mass-messaging (blast) job
type Campaign struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Status      CampaignStatus  `json:"status" yaml:"status"`
	Template    MessageTemplate `json:"template" yaml:"template"`
	Targets     []BlastTarget   `json:"targets" yaml:"targets"`
	ClientIDs   []string        `json:"clientIds" yaml:"clientIds"`
	ScheduledAt *time.Time      `json:"scheduledAt,omitempty" yaml:"scheduledAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	Stats       BlastStats      `json:"stats" yaml:"stats"`
}

type TargetStatus string

const (
	TargetPending   TargetStatus = "pending"
	TargetSent      TargetStatus = "sent"
	TargetDelivered TargetStatus = "delivered"
	TargetFailed    TargetStatus = "failed"
)

// BlastTarget is one recipient of a campaign
type BlastTarget struct {
	ID          string       `json:"id" yaml:"id"`
	PhoneNumber string       `json:"phoneNumber" yaml:"phoneNumber"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Status      TargetStatus `json:"status" yaml:"status"`
	SentAt      *time.Time   `json:"sentAt,omitempty" yaml:"sentAt,omitempty"`
	Error       string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// BlastStats aggregates delivery counters of a campaign
type BlastStats struct {
	Total     int `json:"total" yaml:"total"`
	Sent      int `json:"sent" yaml:"sent"`
	Delivered int `json:"delivered" yaml:"delivered"`
	Failed    int `json:"failed" yaml:"failed"`
	Pending   int `json:"pending" yaml:"pending"`
}

// MessageTemplate is reusable message content with {variable} placeholders
type MessageTemplate struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Content   string     `json:"content" yaml:"content"`
	Variables []string   `json:"variables,omitempty" yaml:"variables,omitempty"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt"`
	LastUsed  *time.Time `json:"lastUsed,omitempty" yaml:"lastUsed,omitempty"`
}

type WarmerStatus string

const (
	WarmerActive    WarmerStatus = "active"
	WarmerPaused    WarmerStatus = "paused"
	WarmerCompleted WarmerStatus = "completed"
)

// WarmerSession is an automated conversation between two clients
type WarmerSession struct {
	ID             string       `json:"id" yaml:"id"`
	ClientID       string       `json:"clientId" yaml:"clientId"`
	TargetClientID string       `json:"targetClientId" yaml:"targetClientId"`
	Status         WarmerStatus `json:"status" yaml:"status"`
	StartedAt      time.Time    `json:"startedAt" yaml:"startedAt"`
	Duration       int          `json:"duration" yaml:"duration"` // minutes
	MessagesSent   int          `json:"messagesSent" yaml:"messagesSent"`
	LastActivity   *time.Time   `json:"lastActivity,omitempty" yaml:"lastActivity,omitempty"`
}

// Address represents a contact-book entry
type Address struct {
	ID                 string     `json:"id" yaml:"id"`
	Name               string     `json:"name" yaml:"name"`
	Address            string     `json:"address" yaml:"address"`
	PhoneNumber        string     `json:"phoneNumber" yaml:"phoneNumber"`
	Rating             *float64   `json:"rating,omitempty" yaml:"rating,omitempty"`
	Reviews            *int       `json:"reviews,omitempty" yaml:"reviews,omitempty"`
	Website            *string    `json:"website,omitempty" yaml:"website,omitempty"`
	Email              *string    `json:"email,omitempty" yaml:"email,omitempty"`
	Latitude           *float64   `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	PostalCode         *string    `json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
	City               *string    `json:"city,omitempty" yaml:"city,omitempty"`
	State              *string    `json:"state,omitempty" yaml:"state,omitempty"`
	Country            *string    `json:"country,omitempty" yaml:"country,omitempty"`
	URL                *string    `json:"url,omitempty" yaml:"url,omitempty"`
	ODP                *string    `json:"odp,omitempty" yaml:"odp,omitempty"`
	Distance           *string    `json:"distance,omitempty" yaml:"distance,omitempty"`
	Status             *string    `json:"status,omitempty" yaml:"status,omitempty"`
	IsBusiness         bool       `json:"isBusiness" yaml:"isBusiness"`
	BusinessName       *string    `json:"businessName,omitempty" yaml:"businessName,omitempty"`
	BusinessCategory   *string    `json:"businessCategory,omitempty" yaml:"businessCategory,omitempty"`
	HasReceivedMessage bool       `json:"hasReceivedMessage" yaml:"hasReceivedMessage"`
	CreatedAt          *time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Conversation is an inbox thread between a client and a contact
type Conversation struct {
	ID            string    `json:"id" yaml:"id"`
	ClientID      string    `json:"clientId" yaml:"clientId"`
	ContactNumber string    `json:"contactNumber" yaml:"contactNumber"`
	ContactName   string    `json:"contactName,omitempty" yaml:"contactName,omitempty"`
	LastMessage   Message   `json:"lastMessage" yaml:"lastMessage"`
	UnreadCount   int       `json:"unreadCount" yaml:"unreadCount"`
	UpdatedAt     time.Time `json:"updatedAt" yaml:"updatedAt"`
	IsArchived    bool      `json:"isArchived" yaml:"isArchived"`
	IsPinned      bool      `json:"isPinned" yaml:"isPinned"`
}

type MessageDirection string

const (
	Incoming MessageDirection = "incoming"
	Outgoing MessageDirection = "outgoing"
)

// Message represents a WhatsApp message inside a conversation
type Message struct {
	ID             string           `json:"id" yaml:"id"`
	ConversationID string           `json:"conversationId" yaml:"conversationId"`
	Content        string           `json:"content" yaml:"content"`
	Type           string           `json:"type" yaml:"type"` // text, image, document, audio, video
	Direction      MessageDirection `json:"direction" yaml:"direction"`
	Timestamp      time.Time        `json:"timestamp" yaml:"timestamp"`
	Status         string           `json:"status" yaml:"status"` // sent, delivered, read, failed
	MediaURL       string           `json:"mediaUrl,omitempty" yaml:"mediaUrl,omitempty"`
	FileName       string           `json:"fileName,omitempty" yaml:"fileName,omitempty"`
}

// NumberCheck is the result of validating a phone number against WhatsApp
type NumberCheck struct {
	PhoneNumber    string    `json:"phoneNumber" yaml:"phoneNumber"`
	IsValid        bool      `json:"isValid" yaml:"isValid"`
	HasWhatsApp    bool      `json:"hasWhatsApp" yaml:"hasWhatsApp"`
	LastChecked    time.Time `json:"lastChecked" yaml:"lastChecked"`
	ProfilePicture string    `json:"profilePicture,omitempty" yaml:"profilePicture,omitempty"`
	About          string    `json:"about,omitempty" yaml:"about,omitempty"`
	Error          string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// DashboardStats is the summary shown on the landing screen
type DashboardStats struct {
	TotalClients         int `json:"totalClients"`
	ConnectedClients     int `json:"connectedClients"`
	TotalBlasts          int `json:"totalBlasts"`
	ActiveBlasts         int `json:"activeBlasts"`
	TotalMessages        int `json:"totalMessages"`
	SentToday            int `json:"sentToday"`
	ActiveWarmerSessions int `json:"activeWarmerSessions"`
	ConversationsToday   int `json:"conversationsToday"`
	UnreadMessages       int `json:"unreadMessages"`
}
