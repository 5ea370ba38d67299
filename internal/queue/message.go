package queue

import "encoding/json"

// Message is the payload sent to downstream queue consumers. It carries
// the full submission so a worker process needs no shared request state;
// file contents travel base64-encoded.
type Message struct {
	AnalysisID  string   `json:"analysisId"`
	RequestID   string   `json:"requestId"`
	UserID      string   `json:"userId"`
	ReportID    string   `json:"reportId"`
	UserSummary string   `json:"userSummary"`
	FileNames   []string `json:"fileNames,omitempty"`
	Files       []string `json:"files,omitempty"`
	EnqueuedAt  string   `json:"enqueuedAt"`
	Version     int      `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
