package interview

const (
	ResultSuccess = "success"

	// NotSpecified подставляется в промпт вместо отсутствующих role и interview_type.
	NotSpecified = "Not specified"

	successMessage = "Follow-up question generated."
)

// Turn один ход интервью: вопрос интервьюера и ответ кандидата.
type Turn struct {
	Question      string   `json:"question"`
	Answer        string   `json:"answer"`
	Role          string   `json:"role,omitempty"`
	InterviewType []string `json:"interview_type,omitempty"`
}

// Envelope ответ сервиса в фиксированном формате.
type Envelope struct {
	Result  string       `json:"result"`
	Message string       `json:"message"`
	Data    EnvelopeData `json:"data"`
}

type EnvelopeData struct {
	FollowupQuestion string `json:"followup_question"`
}

// PromptPair живёт в пределах одного запроса.
type PromptPair struct {
	System string
	User   string
}
