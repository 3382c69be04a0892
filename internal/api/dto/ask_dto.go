package dto

// AskRequest payload.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries the cleaned model answer.
type AskResponse struct {
	Response string `json:"response"`
}
