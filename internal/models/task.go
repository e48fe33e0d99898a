package models

// TaskStatus статус решения задачи для конкретного студента.
type TaskStatus string

// Возможные статусы решения.
const (
	TaskNoAttempts  TaskStatus = "no_attempts"
	TaskWrongAnswer TaskStatus = "wrong_answer"
	TaskUnderReview TaskStatus = "under_review"
	TaskRejected    TaskStatus = "rejected"
	TaskCorrect     TaskStatus = "correct"
)

var taskStatuses = map[TaskStatus]struct{}{
	TaskNoAttempts:  {},
	TaskWrongAnswer: {},
	TaskUnderReview: {},
	TaskRejected:    {},
	TaskCorrect:     {},
}

// Valid сообщает, известен ли статус.
func (s TaskStatus) Valid() bool {
	_, ok := taskStatuses[s]
	return ok
}

// Task задача: принадлежит теме, содержит условие и вложения.
type Task struct {
	UID         string
	TopicUID    string
	Condition   string
	Attachments []string
}

// TaskPatch частичное обновление задачи.
type TaskPatch struct {
	Condition   *string
	Attachments *[]string
}

// Apply переносит заполненные поля патча в задачу.
func (p TaskPatch) Apply(t *Task) {
	if p.Condition != nil {
		t.Condition = *p.Condition
	}
	if p.Attachments != nil {
		t.Attachments = *p.Attachments
	}
}

// TaskResult результат студента по задаче.
type TaskResult struct {
	TaskUID     string
	UserUID     string
	Score       float64
	Status      TaskStatus
	Solution    string
	Attachments []string
}
