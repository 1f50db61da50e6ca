package shipping

type Method string

const MethodStandard Method = "STANDARD"

type Status string

const StatusPending Status = "PENDING"

// Address is the recipient block supplied by the buyer at checkout.
type Address struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	District   string `json:"district"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
}

// Shipping is the snapshot of the address taken when the order is placed.
type Shipping struct {
	ID             string
	OrderID        string
	RecipientName  string
	RecipientPhone string
	Address        string
	District       string
	Province       string
	PostalCode     string
	Method         Method
	Status         Status
}

// FromAddress snapshots addr for orderID. fallbackName is used when the
// buyer left the recipient name empty.
func FromAddress(id, orderID string, addr Address, fallbackName string) *Shipping {
	name := addr.Name
	if name == "" {
		name = fallbackName
	}

	return &Shipping{
		ID:             id,
		OrderID:        orderID,
		RecipientName:  name,
		RecipientPhone: addr.Phone,
		Address:        addr.Address,
		District:       addr.District,
		Province:       addr.Province,
		PostalCode:     addr.PostalCode,
		Method:         MethodStandard,
		Status:         StatusPending,
	}
}
