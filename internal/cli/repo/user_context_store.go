package repo

// UserContextStore абстракция для хранения контекста пользователя (последний вход).
type UserContextStore interface {
	SaveUsername(username string) error
	LoadUsername() (string, error)
}
