package model

// Task statuses. Stored capitalized in the tasks table.
const (
	TaskStatusQueued     = "Queued"
	TaskStatusInProgress = "In Progress"
	TaskStatusComplete   = "Complete"
	TaskStatusFailed     = "Failed"
	TaskStatusCancelled  = "Cancelled"
)

// IsTerminalStatus reports whether a task status admits no further transitions.
func IsTerminalStatus(status string) bool {
	return status == TaskStatusComplete || status == TaskStatusFailed || status == TaskStatusCancelled
}

// Task represents a generation task row
type Task struct {
	ID                    string                 `json:"id" db:"id"`
	TaskType              string                 `json:"task_type" db:"task_type"`
	Params                map[string]interface{} `json:"params" db:"params"`
	ProjectID             string                 `json:"project_id" db:"project_id"`
	Status                string                 `json:"status" db:"status"`
	WorkerID              string                 `json:"worker_id,omitempty" db:"worker_id"`
	Attempts              int                    `json:"attempts" db:"attempts"`
	DependantOn           string                 `json:"dependant_on,omitempty" db:"dependant_on"`
	CreatedAt             string                 `json:"created_at" db:"created_at"`
	UpdatedAt             string                 `json:"updated_at" db:"updated_at"`
	GenerationStartedAt   string                 `json:"generation_started_at,omitempty" db:"generation_started_at"`
	GenerationProcessedAt string                 `json:"generation_processed_at,omitempty" db:"generation_processed_at"`
	ErrorMessage          string                 `json:"error_message,omitempty" db:"error_message"`
	OutputLocation        string                 `json:"output_location,omitempty" db:"output_location"`
	ResultData            map[string]interface{} `json:"result_data,omitempty" db:"result_data"`
	GenerationCreated     bool                   `json:"generation_created" db:"generation_created"`
}

// TaskCreate represents a task submission request
type TaskCreate struct {
	TaskType    string                 `json:"task_type" binding:"required"`
	ProjectID   string                 `json:"project_id" binding:"required"`
	Params      map[string]interface{} `json:"params"`
	DependantOn string                 `json:"dependant_on"`
}

// ClaimRequest represents a worker's poll for the next eligible task
type ClaimRequest struct {
	WorkerID      string `json:"worker_id" binding:"required"`
	InstanceType  string `json:"instance_type"`
	RunType       string `json:"run_type"`
	IncludeActive bool   `json:"include_active"`
}

// ClaimedTask is the claim result handed to the worker
type ClaimedTask struct {
	TaskID    string                 `json:"task_id"`
	TaskType  string                 `json:"task_type"`
	Params    map[string]interface{} `json:"params"`
	ProjectID string                 `json:"project_id"`
}

// CompleteRequest reports a successful task outcome
type CompleteRequest struct {
	WorkerID       string                 `json:"worker_id" binding:"required"`
	OutputLocation string                 `json:"output_location" binding:"required"`
	ResultData     map[string]interface{} `json:"result_data"`
	UnitCount      int                    `json:"unit_count"`
}

// FailRequest reports a failed task outcome
type FailRequest struct {
	WorkerID     string `json:"worker_id" binding:"required"`
	ErrorMessage string `json:"error_message" binding:"required"`
}

// TaskAvailability summarizes the queue for operator tooling
type TaskAvailability struct {
	Queued     int            `json:"queued"`
	InProgress int            `json:"in_progress"`
	ByRunType  map[string]int `json:"by_run_type"`
	ByTaskType map[string]int `json:"by_task_type"`
}
