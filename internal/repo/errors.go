package repo

import "errors"

var (
	// ErrNotFound — обновляемая запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrReference — создаваемая запись ссылается на несуществующего владельца/родителя.
	ErrReference = errors.New("referenced entity does not exist")
	// ErrDuplicate — нарушена уникальность (username).
	ErrDuplicate = errors.New("already exists")
	// ErrUnavailable — хранилище недоступно или вернуло ошибку.
	ErrUnavailable = errors.New("storage unavailable")
)
