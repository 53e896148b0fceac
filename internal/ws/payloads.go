package ws

// Message is the envelope for every server → client frame. Type is one of
// the notification type constants in the service package; Payload carries
// the wallet snapshot, completion or purchase it announces.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
