package http

import "github.com/quizlab/quizd/internal/quiz/domain"

// TokenResponse is the login endpoint's success body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

// QuestionCreatedResponse is returned when an admin appends a question.
type QuestionCreatedResponse struct {
	Status      string          `json:"status"`
	CreatedItem domain.Question `json:"created_item"`
}

// HealthResponse is the body of the health probe endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
