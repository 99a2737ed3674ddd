package types

// ConversationMessage is one turn of the transcript handed to conversation
// ingestion and to the extraction provider.
type ConversationMessage struct {
	Role    string `json:"role"` // "user", "assistant" or "system"
	Content string `json:"content"`
}

// ExtractedMemory is one candidate memory produced by an extraction provider.
type ExtractedMemory struct {
	Content    string `json:"content"`
	MemoryType string `json:"memoryType"`
	Importance int16  `json:"importance"`
}

type ExtractionResult struct {
	Memories []ExtractedMemory `json:"memories"`
}
