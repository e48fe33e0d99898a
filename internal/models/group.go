package models

// Group группа: принадлежит курсу, содержит студентов и преподавателей.
type Group struct {
	UID         string
	CourseUID   string
	Name        string
	Description string
	Students    []string // UID студентов
	Teachers    []string // UID преподавателей
}

// GroupPatch частичное обновление группы.
type GroupPatch struct {
	Name        *string
	Description *string
}

// Apply переносит заполненные поля патча в группу.
func (p GroupPatch) Apply(g *Group) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
}
