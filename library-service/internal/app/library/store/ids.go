package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IDGenerator выдает идентификаторы отзывов
type IDGenerator interface {
	NewID() (string, error)
}

// Clock возвращает текущее время коммита
type Clock func() time.Time

const reviewIDPrefix = "review-"

// UUIDGenerator выдает идентификаторы на основе UUIDv7
// uuid.NewV7 монотонен внутри процесса, поэтому идентификаторы уникальны
// и упорядочены по времени создания даже в пределах одного тика часов
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate review id: %w", err)
	}
	return reviewIDPrefix + id.String(), nil
}
