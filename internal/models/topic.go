package models

// Topic тема: принадлежит курсу, содержит задачи.
type Topic struct {
	UID         string
	CourseUID   string
	Name        string
	Description string
	Resources   []string
}

// TopicPatch частичное обновление темы.
type TopicPatch struct {
	Name        *string
	Description *string
	Resources   *[]string
}

// Apply переносит заполненные поля патча в тему.
func (p TopicPatch) Apply(t *Topic) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Resources != nil {
		t.Resources = *p.Resources
	}
}
