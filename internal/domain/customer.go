package domain

const DefaultCountry = "India"

// CustomerDraft is the booking form's customer section.
type CustomerDraft struct {
	Title     string `json:"title"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone" validate:"required"`

	BusinessAddress bool   `json:"businessAddress"`
	PrivateAddress  bool   `json:"privateAddress"`
	Street          string `json:"street" validate:"required"`
	City            string `json:"city" validate:"required"`
	StatePostalCode string `json:"statePostalCode"`
	Country         string `json:"country" validate:"required"`

	Nationality        string `json:"nationality" validate:"required"`
	IDType             string `json:"idType,omitempty"`
	PassportNumber     string `json:"passportNumber" validate:"required"`
	PassportIssueDate  string `json:"passportIssueDate"`
	PassportExpiryDate string `json:"passportExpiryDate"`
	PassportIssuePlace string `json:"passportIssuePlace"`

	PaymentMethod string `json:"paymentMethod" validate:"required"`

	SpecialRequests  string `json:"specialRequests"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`

	IsExisting bool   `json:"isExisting"`
	CustomerID string `json:"customerId,omitempty"`
}

// NewCustomerDraft returns the empty form template used on open and reset.
func NewCustomerDraft() CustomerDraft {
	return CustomerDraft{
		PrivateAddress: true,
		Country:        DefaultCountry,
	}
}

// Customer is the controller's stored customer record.
type Customer struct {
	ID             string `json:"id"`
	Salutation     string `json:"salutation"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Nationality    string `json:"nationality"`
	Street         string `json:"billing_street"`
	City           string `json:"billing_city"`
	State          string `json:"billing_state"`
	Country        string `json:"billing_country"`
	IDType         string `json:"id_type"`
	PassportNumber string `json:"id_passport_number"`
	IDIssuePlace   string `json:"id_issue_place"`
	IDIssueDate    string `json:"id_issue_date"`
	IDExpiryDate   string `json:"id_expiry_date"`
}

// Apply copies the stored record onto the draft and binds it to the customer.
// The typed phone and payment details stay as entered.
func (c Customer) Apply(d CustomerDraft) CustomerDraft {
	d.Title = c.Salutation
	d.FirstName = c.FirstName
	d.LastName = c.LastName
	d.Email = c.Email
	d.Nationality = c.Nationality
	d.Street = c.Street
	d.City = c.City
	d.StatePostalCode = c.State
	d.Country = c.Country
	d.PassportNumber = c.PassportNumber
	d.PassportIssuePlace = c.IDIssuePlace
	d.PassportIssueDate = c.IDIssueDate
	d.PassportExpiryDate = c.IDExpiryDate
	d.IDType = c.IDType
	d.IsExisting = true
	d.CustomerID = c.ID
	return d
}
