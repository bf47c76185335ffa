package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type airportModel struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	Name      string    `gorm:"column:name;not null"`
	Code      string    `gorm:"column:code;size:8;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (airportModel) TableName() string { return "airports" }

type roomModel struct {
	ID          string    `gorm:"column:id;primaryKey;size:36"`
	AirportID   string    `gorm:"column:airport_id;size:36;index;not null"`
	RoomNumber  string    `gorm:"column:room_number"`
	RoomType    string    `gorm:"column:room_type;not null"`
	Maintenance bool      `gorm:"column:maintenance;not null;default:false"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

type customerModel struct {
	ID             string    `gorm:"column:id;primaryKey;size:36"`
	Salutation     string    `gorm:"column:salutation"`
	FirstName      string    `gorm:"column:first_name"`
	LastName       string    `gorm:"column:last_name"`
	Email          string    `gorm:"column:email"`
	Phone          string    `gorm:"column:phone;uniqueIndex;not null"`
	Nationality    string    `gorm:"column:nationality"`
	Street         string    `gorm:"column:billing_street"`
	City           string    `gorm:"column:billing_city"`
	State          string    `gorm:"column:billing_state"`
	Country        string    `gorm:"column:billing_country"`
	IDType         string    `gorm:"column:id_type"`
	PassportNumber string    `gorm:"column:id_passport_number"`
	IDIssuePlace   string    `gorm:"column:id_issue_place"`
	IDIssueDate    string    `gorm:"column:id_issue_date"`
	IDExpiryDate   string    `gorm:"column:id_expiry_date"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (customerModel) TableName() string { return "customers" }

type bookingModel struct {
	ID              string    `gorm:"column:id;primaryKey;size:36"`
	RoomID          string    `gorm:"column:room_id;size:36;index:idx_bookings_room_time;not null"`
	AirportID       string    `gorm:"column:airport_id;size:36;not null"`
	CustomerID      string    `gorm:"column:customer_id;size:36;index;not null"`
	Duration        string    `gorm:"column:duration;not null"`
	StartTime       time.Time `gorm:"column:start_time;index:idx_bookings_room_time;not null"`
	EndTime         time.Time `gorm:"column:end_time;not null"`
	Status          string    `gorm:"column:status;not null"`
	PaymentMethod   string    `gorm:"column:payment_method"`
	SpecialRequests string    `gorm:"column:special_requests"`
	IdempotencyKey  *string   `gorm:"column:idempotency_key;uniqueIndex"`
	DocumentID      *string   `gorm:"column:document_id"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

type picklistValueModel struct {
	ID         uint   `gorm:"column:id;primaryKey"`
	RecordType string `gorm:"column:record_type;index:idx_picklist_lookup;not null"`
	Field      string `gorm:"column:field;index:idx_picklist_lookup;not null"`
	Label      string `gorm:"column:label;not null"`
	Value      string `gorm:"column:value;not null"`
	SortOrder  int    `gorm:"column:sort_order"`
}

func (picklistValueModel) TableName() string { return "picklist_values" }

// AutoMigrate creates or updates every controller table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&airportModel{},
		&roomModel{},
		&customerModel{},
		&bookingModel{},
		&picklistValueModel{},
	)
}

func newID() string { return uuid.NewString() }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// isUniqueViolation reports a unique index conflict from Postgres or SQLite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
