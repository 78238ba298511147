package worker

// AnalysisNotifyMessage is the WebSocket message protocol, forwarded to the
// browser through Redis pub/sub. Field names must stay in sync with the
// frontend parser.
type AnalysisNotifyMessage struct {
	Status        string `json:"status"`
	ResumeID      uint   `json:"resume_id"`
	ResumeName    string `json:"resume_name"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}
