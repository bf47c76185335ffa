package widget

import (
	"fmt"
	"strconv"

	"walkindesk/internal/domain"
)

// setCustomerField assigns one draft field by its form (json) name.
func setCustomerField(d domain.CustomerDraft, field, value string) (domain.CustomerDraft, error) {
	switch field {
	case "title":
		d.Title = value
	case "firstName":
		d.FirstName = value
	case "lastName":
		d.LastName = value
	case "email":
		d.Email = value
	case "phone":
		d.Phone = value
	case "businessAddress", "privateAddress":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return d, fmt.Errorf("%w: %s must be true or false", ErrValidation, field)
		}
		if field == "businessAddress" {
			d.BusinessAddress = b
		} else {
			d.PrivateAddress = b
		}
	case "street":
		d.Street = value
	case "city":
		d.City = value
	case "statePostalCode":
		d.StatePostalCode = value
	case "country":
		d.Country = value
	case "nationality":
		d.Nationality = value
	case "idType":
		d.IDType = value
	case "passportNumber":
		d.PassportNumber = value
	case "passportIssueDate":
		d.PassportIssueDate = value
	case "passportExpiryDate":
		d.PassportExpiryDate = value
	case "passportIssuePlace":
		d.PassportIssuePlace = value
	case "paymentMethod":
		d.PaymentMethod = value
	case "specialRequests":
		d.SpecialRequests = value
	case "emergencyContact":
		d.EmergencyContact = value
	case "emergencyPhone":
		d.EmergencyPhone = value
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return d, nil
}
