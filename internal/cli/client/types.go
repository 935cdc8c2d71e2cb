package client

import "time"

// API views decoded by the CLI. They mirror the server's JSON shapes.

type chatRequest struct {
	Prompt  string `json:"prompt"`
	Section string `json:"section,omitempty"`
	User    string `json:"user,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	Model string `json:"model,omitempty"`
}

type factsRequest struct {
	Query      string `json:"query"`
	K          int    `json:"k"`
	Normalized bool   `json:"normalized"`
	Semantic   bool   `json:"semantic"`
}

type scoredFact struct {
	Text   string   `json:"text"`
	Topics []string `json:"topics"`
	Score  float64  `json:"score"`
}

type factsResponse struct {
	Query  string       `json:"query"`
	Topics []string     `json:"topics"`
	Facts  []scoredFact `json:"facts"`
}

type sessionRequest struct {
	User           string `json:"user"`
	SchoolID       string `json:"school_id,omitempty"`
	Grade          string `json:"grade,omitempty"`
	ResponseLength int    `json:"response_length,omitempty"`
}

type sessionInfo struct {
	ID             string `json:"id"`
	Messages       int    `json:"messages"`
	ResponseLength int    `json:"response_length"`
}

type chatReply struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

type quizQuestion struct {
	ID       string   `json:"id"`
	Number   int      `json:"number"`
	Total    int      `json:"total"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Tip      string   `json:"tip,omitempty"`
}

type quizAnswer struct {
	Correct           bool   `json:"correct"`
	Feedback          string `json:"feedback"`
	Reflection        string `json:"reflection,omitempty"`
	CorrectAnswer     string `json:"correctAnswer"`
	CorrectAnswerText string `json:"correctAnswerText"`
	Score             int    `json:"score"`
	Answered          int    `json:"answered"`
}

type quizProgress struct {
	Question *quizQuestion `json:"question,omitempty"`
	Complete bool          `json:"complete"`
	Summary  string        `json:"summary,omitempty"`
}

type hintResponse struct {
	QuestionID string `json:"questionId"`
	Level      int    `json:"hintLevel"`
	Hint       string `json:"hint"`
}

type homeworkRequest struct {
	SchoolID    string `json:"school_id"`
	Grade       string `json:"grade"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by,omitempty"`
	WeekStart   string `json:"week_start,omitempty"`
}

type homeworkEntry struct {
	ID          string    `json:"id"`
	SchoolID    string    `json:"schoolId"`
	Grade       string    `json:"grade"`
	WeekStart   time.Time `json:"weekStart"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
}
