package api

// UserProfile represents the authenticated user.
type UserProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"emailVerified"`
	PartnerID     string `json:"partnerId,omitempty"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// Cycle represents one tracked menstrual cycle.
type Cycle struct {
	ID          string   `json:"id"`
	StartDate   string   `json:"startDate"` // YYYY-MM-DD
	EndDate     string   `json:"endDate,omitempty"`
	CycleLength int      `json:"cycleLength,omitempty"`
	Symptoms    []string `json:"symptoms,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// Medication represents a medication schedule.
type Medication struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Dosage     string   `json:"dosage"`
	Frequency  string   `json:"frequency"`
	TimesOfDay []string `json:"timesOfDay,omitempty"`
	Active     bool     `json:"active"`
}

// DoseLog records one taken dose of a medication.
type DoseLog struct {
	ID            string `json:"id"`
	MedicationID  string `json:"medicationId"`
	TakenAtUnixMs int64  `json:"takenAt"`
}

// ChatMessage is a single entry in a companion chat session.
type ChatMessage struct {
	Sender          string `json:"sender"` // "user" or "assistant"
	Content         string `json:"content"`
	TimestampUnixMs int64  `json:"timestamp"`
}

// ChatSession is one conversation with the AI companion.
type ChatSession struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages,omitempty"`
	Context  string        `json:"context,omitempty"`
}

// SendMessageResponse carries the stored user message and, when the
// companion produced one, the assistant reply.
type SendMessageResponse struct {
	SessionID        string       `json:"sessionId"`
	UserMessage      ChatMessage  `json:"userMessage"`
	AssistantMessage *ChatMessage `json:"assistantMessage,omitempty"`
}

// PartnerLink describes the partner relationship of the current user.
type PartnerLink struct {
	Status     string       `json:"status"` // "none", "invited", "linked"
	Partner    *UserProfile `json:"partner,omitempty"`
	InviteCode string       `json:"inviteCode,omitempty"`
}

// Community is a forum group.
type Community struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MemberCount int    `json:"memberCount"`
	Joined      bool   `json:"joined"`
}

// Post is a community forum post.
type Post struct {
	ID              string `json:"id"`
	CommunityID     string `json:"communityId"`
	AuthorName      string `json:"authorName"`
	Content         string `json:"content"`
	CreatedAtUnixMs int64  `json:"createdAt"`
}
