package constant

// Meeting statuses.
const (
	MeetingStatusActive    = "ACTIVE"
	MeetingStatusCompleted = "COMPLETED"
	MeetingStatusArchived  = "ARCHIVED"
)

// Message sender types.
const (
	SenderUser      = "USER"
	SenderAgent     = "AGENT"
	SenderModerator = "MODERATOR"
)

// Confidence levels emitted by the moderator.
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// Opinion sentiments attached to agent messages.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// Retrieval tuning. Document search casts a wider net than meeting memory,
// which only surfaces when a past decision is a close match.
const (
	DocumentSearchThreshold = 0.5
	DocumentSearchLimit     = 5
	MemorySearchThreshold   = 0.6
	MemorySearchLimit       = 3

	// DocumentSnippetLength caps how much of each matched chunk is quoted
	// into the board context.
	DocumentSnippetLength = 500
)

// NoContextNotice is the context text used when neither documents nor past
// meeting memories matched the query.
const NoContextNotice = "No relevant documents or memories were found for this query. The board should base their advice on general expertise while noting the lack of specific project context."

// Rate limit windows (requests per minute, per user).
const (
	ChatRateLimitPerMinute   = 10
	UploadRateLimitPerMinute = 5
)
