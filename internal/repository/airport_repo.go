package repository

import (
	"context"

	"walkindesk/internal/domain"

	"gorm.io/gorm"
)

type AirportRepository struct {
	db *gorm.DB
}

func NewAirportRepository(db *gorm.DB) *AirportRepository {
	return &AirportRepository{db: db}
}

func toDomainAirport(m airportModel) domain.Airport {
	return domain.Airport{ID: m.ID, Name: m.Name, Code: m.Code}
}

func (r *AirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	var rows []airportModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Airport, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainAirport(m))
	}
	return out, nil
}

func (r *AirportRepository) GetByID(ctx context.Context, id string) (*domain.Airport, error) {
	var m airportModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	a := toDomainAirport(m)
	return &a, nil
}

func (r *AirportRepository) Create(ctx context.Context, a *domain.Airport) error {
	m := airportModel{ID: a.ID, Name: a.Name, Code: a.Code}
	if m.ID == "" {
		m.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*a = toDomainAirport(m)
	return nil
}
