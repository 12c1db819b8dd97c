package service

import "gametracker/library-service/internal/app/library/entity"

// ReviewSource - поток отзывов хранилища для EventForwarder
type ReviewSource interface {
	WatchReviews(callback func([]entity.Review)) ([]entity.Review, func())
}

// SnapshotSource - согласованное чтение хранилища для отчетов
type SnapshotSource interface {
	Snapshot() entity.Snapshot
	CurrentUserID() string
}
