package repository

import (
	"context"
	"errors"
	"time"

	"walkindesk/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOverlap      = errors.New("room already booked for the requested time")
	ErrStaleStatus  = errors.New("booking status changed concurrently")
	ErrDuplicateKey = errors.New("idempotency key already used")
)

var activeStatuses = []string{string(domain.BookingConfirmed), string(domain.BookingInProgress)}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:              m.ID,
		RoomID:          m.RoomID,
		AirportID:       m.AirportID,
		CustomerID:      m.CustomerID,
		Duration:        m.Duration,
		StartTime:       m.StartTime.UTC(),
		EndTime:         m.EndTime.UTC(),
		Status:          domain.BookingStatus(m.Status),
		PaymentMethod:   m.PaymentMethod,
		SpecialRequests: m.SpecialRequests,
		IdempotencyKey:  deref(m.IdempotencyKey),
		DocumentID:      deref(m.DocumentID),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:              b.ID,
		RoomID:          b.RoomID,
		AirportID:       b.AirportID,
		CustomerID:      b.CustomerID,
		Duration:        b.Duration,
		StartTime:       b.StartTime.UTC(),
		EndTime:         b.EndTime.UTC(),
		Status:          string(b.Status),
		PaymentMethod:   b.PaymentMethod,
		SpecialRequests: b.SpecialRequests,
		IdempotencyKey:  optional(b.IdempotencyKey),
		DocumentID:      optional(b.DocumentID),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// lockRoom serializes writers per room. SQLite ignores the row lock and
// relies on its single writer.
func lockRoom(tx *gorm.DB, roomID string) error {
	var room roomModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, "id = ?", roomID).Error
	return notFound(err)
}

func overlapping(tx *gorm.DB, roomID, excludeID string, start, end time.Time) (bool, error) {
	var cnt int64
	q := tx.Model(&bookingModel{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", activeStatuses).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC())
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// CreateWithCustomer saves the customer draft and the booking in one
// transaction. A rejected booking leaves the customer table untouched.
func (r *BookingRepository) CreateWithCustomer(ctx context.Context, d domain.CustomerDraft, b *domain.Booking) error {
	m := toBookingModel(b)
	if m.ID == "" {
		m.ID = newID()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, m.RoomID); err != nil {
			return err
		}
		busy, err := overlapping(tx, m.RoomID, "", m.StartTime, m.EndTime)
		if err != nil {
			return err
		}
		if busy {
			return ErrOverlap
		}

		customer, err := saveCustomer(tx, d)
		if err != nil {
			return err
		}
		m.CustomerID = customer.ID
		return tx.Create(&m).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}

	*b = *toDomainBooking(m)
	return nil
}

// Create stores an active booking unless it overlaps another active booking
// of the same room.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if m.ID == "" {
		m.ID = newID()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, m.RoomID); err != nil {
			return err
		}
		busy, err := overlapping(tx, m.RoomID, "", m.StartTime, m.EndTime)
		if err != nil {
			return err
		}
		if busy {
			return ErrOverlap
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}

	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, "idempotency_key = ?", key).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainBooking(m), nil
}

// ActiveAt returns, per room, the end of the active booking covering at.
func (r *BookingRepository) ActiveAt(ctx context.Context, roomIDs []string, at time.Time) (map[string]time.Time, error) {
	out := make(map[string]time.Time)
	if len(roomIDs) == 0 {
		return out, nil
	}

	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("room_id IN ?", roomIDs).
		Where("status IN ?", activeStatuses).
		Where("start_time <= ? AND end_time > ?", at.UTC(), at.UTC()).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	for _, m := range rows {
		end := m.EndTime.UTC()
		if cur, ok := out[m.RoomID]; !ok || end.After(cur) {
			out[m.RoomID] = end
		}
	}
	return out, nil
}

type roomBookingRow struct {
	ID        string    `gorm:"column:id"`
	Status    string    `gorm:"column:status"`
	StartTime time.Time `gorm:"column:start_time"`
	EndTime   time.Time `gorm:"column:end_time"`
	Phone     string    `gorm:"column:phone"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
}

// ListForRoom lists bookings of a room that intersect [from, to), earliest
// first.
func (r *BookingRepository) ListForRoom(ctx context.Context, roomID string, from, to time.Time) ([]domain.RoomBookingRecord, error) {
	var rows []roomBookingRow
	tx := r.db.WithContext(ctx).
		Table("bookings AS b").
		Select("b.id, b.status, b.start_time, b.end_time, c.phone, c.first_name, c.last_name").
		Joins("LEFT JOIN customers c ON c.id = b.customer_id").
		Where("b.room_id = ?", roomID).
		Where("b.start_time < ? AND b.end_time > ?", to.UTC(), from.UTC()).
		Order("b.start_time ASC").
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.RoomBookingRecord, 0, len(rows))
	for _, row := range rows {
		start, end := row.StartTime.UTC(), row.EndTime.UTC()
		name := row.FirstName
		if row.LastName != "" {
			name += " " + row.LastName
		}
		out = append(out, domain.RoomBookingRecord{
			ID:            row.ID,
			CustomerPhone: row.Phone,
			CustomerName:  name,
			Status:        domain.BookingStatus(row.Status),
			StartTime:     &start,
			EndTime:       &end,
		})
	}
	return out, nil
}

// Transition moves a booking from one status to another. It fails with
// ErrStaleStatus when the booking is no longer in from.
func (r *BookingRepository) Transition(ctx context.Context, id string, from, to domain.BookingStatus, documentID string) error {
	updates := map[string]any{"status": string(to)}
	if documentID != "" {
		updates["document_id"] = documentID
	}

	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// Extend moves an in-progress booking's end time when the room stays free.
func (r *BookingRepository) Extend(ctx context.Context, id string, newEnd time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m bookingModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if err := lockRoom(tx, m.RoomID); err != nil {
			return err
		}
		busy, err := overlapping(tx, m.RoomID, m.ID, m.StartTime, newEnd)
		if err != nil {
			return err
		}
		if busy {
			return ErrOverlap
		}

		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", id, string(domain.BookingInProgress)).
			Update("end_time", newEnd.UTC())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		return nil
	})
}
