package repository

import (
	"context"

	"walkindesk/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func toDomainRoom(m roomModel) domain.Room {
	return domain.Room{
		ID:          m.ID,
		AirportID:   m.AirportID,
		RoomNumber:  m.RoomNumber,
		RoomType:    m.RoomType,
		Maintenance: m.Maintenance,
		IsActive:    m.IsActive,
	}
}

func (r *RoomRepository) ListByAirport(ctx context.Context, airportID string) ([]domain.Room, error) {
	var rows []roomModel
	tx := r.db.WithContext(ctx).
		Where("airport_id = ?", airportID).
		Order("room_number ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainRoom(m))
	}
	return out, nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	var m roomModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	room := toDomainRoom(m)
	return &room, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := roomModel{
		ID:          room.ID,
		AirportID:   room.AirportID,
		RoomNumber:  room.RoomNumber,
		RoomType:    room.RoomType,
		Maintenance: room.Maintenance,
		IsActive:    room.IsActive,
	}
	if m.ID == "" {
		m.ID = newID()
	}
	// gorm skips false bools that have a default tag
	if err := r.db.WithContext(ctx).Select("*").Create(&m).Error; err != nil {
		return err
	}
	*room = toDomainRoom(m)
	return nil
}

func (r *RoomRepository) SetActive(ctx context.Context, id string, active bool) error {
	tx := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("id = ?", id).
		Update("is_active", active)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
