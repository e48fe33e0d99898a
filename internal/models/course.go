package models

// Course курс: объединяет группы и темы. Пользователи привязаны к группам,
// а не к курсу напрямую.
type Course struct {
	UID         string
	Name        string
	Description string
}

// CourseStats агрегированные показатели по курсу.
type CourseStats struct {
	TotalGroups   int
	TotalTopics   int
	TotalTasks    int
	TotalStudents int
}

// CoursePatch частичное обновление курса.
type CoursePatch struct {
	Name        *string
	Description *string
}

// Apply переносит заполненные поля патча в курс.
func (p CoursePatch) Apply(c *Course) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
}
