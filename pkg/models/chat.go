package models

// ChatRequest represents an incoming chat request
type ChatRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
}

// UploadResponse アップロード成功時のレスポンス
type UploadResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	FileName  string `json:"file_name"`
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
}

// ErrorResponse アップロード系のエラーレスポンス
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ChatOutcome is the typed result of a chat turn.
type ChatOutcome string

const (
	OutcomeReplied       ChatOutcome = "replied"
	OutcomeDeclined      ChatOutcome = "declined"
	OutcomeUpstreamError ChatOutcome = "upstream_error"
	OutcomeNoDataset     ChatOutcome = "no_dataset"
	OutcomeCommand       ChatOutcome = "command"
)

// ChatResult チャット処理の結果
// Body is serialized as-is to the client; for OutcomeReplied it is the model's object verbatim.
type ChatResult struct {
	Outcome ChatOutcome
	Body    map[string]any
	Err     error
}
