package repository

import (
	"context"
	"errors"
	"strings"

	"walkindesk/internal/domain"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func toDomainCustomer(m customerModel) *domain.Customer {
	return &domain.Customer{
		ID:             m.ID,
		Salutation:     m.Salutation,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Name:           strings.TrimSpace(m.FirstName + " " + m.LastName),
		Email:          m.Email,
		Phone:          m.Phone,
		Nationality:    m.Nationality,
		Street:         m.Street,
		City:           m.City,
		State:          m.State,
		Country:        m.Country,
		IDType:         m.IDType,
		PassportNumber: m.PassportNumber,
		IDIssuePlace:   m.IDIssuePlace,
		IDIssueDate:    m.IDIssueDate,
		IDExpiryDate:   m.IDExpiryDate,
	}
}

func applyDraft(m *customerModel, d domain.CustomerDraft) {
	m.Salutation = d.Title
	m.FirstName = d.FirstName
	m.LastName = d.LastName
	m.Email = d.Email
	m.Phone = d.Phone
	m.Nationality = d.Nationality
	m.Street = d.Street
	m.City = d.City
	m.State = d.StatePostalCode
	m.Country = d.Country
	m.IDType = d.IDType
	m.PassportNumber = d.PassportNumber
	m.IDIssuePlace = d.PassportIssuePlace
	m.IDIssueDate = d.PassportIssueDate
	m.IDExpiryDate = d.PassportExpiryDate
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	var m customerModel
	if err := r.db.WithContext(ctx).First(&m, "phone = ?", phone).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainCustomer(m), nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	var m customerModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainCustomer(m), nil
}

// Save stores the draft against the customer owning its phone number,
// creating the customer on first visit. Details typed at the desk overwrite
// the stored ones.
func (r *CustomerRepository) Save(ctx context.Context, d domain.CustomerDraft) (*domain.Customer, error) {
	var out *domain.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := saveCustomer(tx, d)
		out = c
		return err
	})
	return out, err
}

// saveCustomer runs inside the caller's transaction. The insert sits in a
// savepoint so a lost phone race can be read back without aborting tx.
func saveCustomer(tx *gorm.DB, d domain.CustomerDraft) (*domain.Customer, error) {
	var m customerModel
	err := tx.First(&m, "phone = ?", d.Phone).Error
	switch {
	case err == nil:
		applyDraft(&m, d)
		if err := tx.Save(&m).Error; err != nil {
			return nil, err
		}
		return toDomainCustomer(m), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	m = customerModel{ID: newID()}
	applyDraft(&m, d)
	err = tx.Transaction(func(sp *gorm.DB) error {
		return sp.Create(&m).Error
	})
	if err == nil {
		return toDomainCustomer(m), nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}

	// another desk registered the same phone first
	if err := tx.First(&m, "phone = ?", d.Phone).Error; err != nil {
		return nil, notFound(err)
	}
	applyDraft(&m, d)
	if err := tx.Save(&m).Error; err != nil {
		return nil, err
	}
	return toDomainCustomer(m), nil
}
