package dto

import "time"

type CreateProjectRequest struct {
	Name string `json:"name"`
}

type CreateUserRequest struct {
	Name           string `json:"name"`
	TelegramChatID int64  `json:"telegram_chat_id"`
}

type SubtaskRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	SequenceOrder *int      `json:"sequence_order"`
	AssignedTo    string    `json:"assigned_to"`
	StartDate     time.Time `json:"start_date"`
	Deadline      time.Time `json:"deadline"`
}

type CreateTaskRequest struct {
	ProjectID     string           `json:"project_id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	IsSequential  bool             `json:"is_sequential"`
	AssignedUsers []string         `json:"assigned_users"`
	StartDate     time.Time        `json:"start_date"`
	Deadline      time.Time        `json:"deadline"`
	Subtasks      []SubtaskRequest `json:"subtasks"`
}

// TransitionRequest asks for a status change. Reason carries the review
// comment on approval and the explanation on return.
type TransitionRequest struct {
	Status  string `json:"status"`
	ActorID string `json:"actor_id"`
	Reason  string `json:"reason"`
}

type SwapOrderRequest struct {
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`
}

type ReassignRequest struct {
	AssignedTo string `json:"assigned_to"`
}

type AssigneesRequest struct {
	AssignedUsers []string `json:"assigned_users"`
}

type WorkAssignmentRequest struct {
	UserID    string    `json:"user_id"`
	TaskID    string    `json:"task_id"`
	SubtaskID *string   `json:"subtask_id"`
	Date      time.Time `json:"date"`
}
