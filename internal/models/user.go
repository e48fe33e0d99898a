// Package models содержит доменные модели платформы: пользователей,
// курсы, группы, темы и задачи. Структуры используются в бизнес-логике
// и при работе с хранилищем.
package models

// Role роль пользователя в системе.
type Role string

// Возможные роли. Иерархия задаётся явно через rank, а не порядком объявления.
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

var roleRank = map[Role]int{
	RoleStudent: 0,
	RoleTeacher: 1,
	RoleAdmin:   2,
}

// Valid сообщает, известна ли роль.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast сравнивает роли в тотальном порядке student < teacher < admin.
// Неизвестная роль никогда не проходит проверку.
func (r Role) AtLeast(min Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	mr, ok := roleRank[min]
	if !ok {
		return false
	}
	return rr >= mr
}

// Status статус учётной записи.
type Status string

// Возможные статусы учётной записи.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// SubscriptionStatus статус абонемента студента.
type SubscriptionStatus string

// Возможные статусы абонемента.
const (
	SubscriptionPaid    SubscriptionStatus = "paid"
	SubscriptionUnpaid  SubscriptionStatus = "unpaid"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID                string             // Уникальный идентификатор
	Name               string             // Имя
	Surname            string             // Фамилия
	Username           string             // Уникальный handle, ключ для поиска
	Role               Role               // Роль: student, teacher или admin
	Status             Status             // Статус учётной записи
	Phone              *string            // Телефон, уникален при наличии
	AvatarURL          *string            // Ссылка на аватар
	Bio                *string            // Краткая биография
	PasswordHash       string             // bcrypt-хэш пароля
	AccessToken        *string            // Последний выданный access-токен
	RefreshToken       *string            // Действующий refresh-токен
	SubscriptionStatus SubscriptionStatus // Имеет смысл только для студентов
	LessonsRemaining   int                // Остаток занятий, >= 0
}

// FullName возвращает полное имя пользователя.
func (u *User) FullName() string {
	return u.Name + " " + u.Surname
}

// IsActive сообщает, активна ли учётная запись.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// HasValidSubscription проверяет, действителен ли абонемент.
// Для преподавателей и администраторов всегда true.
func (u *User) HasValidSubscription() bool {
	if u.Role != RoleStudent {
		return true
	}
	return u.SubscriptionStatus == SubscriptionPaid && u.LessonsRemaining > 0
}

// UserView представление пользователя для ответов API, без хэша пароля
// и токенов.
type UserView struct {
	UID                string             `json:"uid"`
	Name               string             `json:"name"`
	Surname            string             `json:"surname"`
	Username           string             `json:"username"`
	Role               Role               `json:"role"`
	Status             Status             `json:"status"`
	Phone              *string            `json:"phone,omitempty"`
	AvatarURL          *string            `json:"avatar_url,omitempty"`
	Bio                *string            `json:"bio,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status,omitempty"`
	LessonsRemaining   int                `json:"lessons_remaining"`
}

// NewUserView строит представление пользователя для ответа API.
func NewUserView(u *User) UserView {
	return UserView{
		UID:                u.UID,
		Name:               u.Name,
		Surname:            u.Surname,
		Username:           u.Username,
		Role:               u.Role,
		Status:             u.Status,
		Phone:              u.Phone,
		AvatarURL:          u.AvatarURL,
		Bio:                u.Bio,
		SubscriptionStatus: u.SubscriptionStatus,
		LessonsRemaining:   u.LessonsRemaining,
	}
}

// NewUserViews строит представления для списка пользователей.
func NewUserViews(users []*User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewUserView(u))
	}
	return views
}

// ProfilePatch описывает частичное обновление профиля: заполненные поля
// переносятся в пользователя, nil-поля не трогаются.
type ProfilePatch struct {
	Name      *string
	Surname   *string
	Phone     *string
	AvatarURL *string
	Bio       *string
}

// Apply переносит заполненные поля патча в пользователя.
func (p ProfilePatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Surname != nil {
		u.Surname = *p.Surname
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.AvatarURL != nil {
		u.AvatarURL = p.AvatarURL
	}
	if p.Bio != nil {
		u.Bio = p.Bio
	}
}
