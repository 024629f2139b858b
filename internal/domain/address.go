package domain

// Address представляет сохранённый адрес доставки.
type Address struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	FullName       string `json:"fullName"`
	Phone          string `json:"phone"`
	City           string `json:"city"`
	District       string `json:"district"`
	Neighborhood   string `json:"neighborhood,omitempty"`
	AddressDetails string `json:"addressDetails"`
	PostalCode     string `json:"postalCode"`
	IsDefault      bool   `json:"isDefault,omitempty"`
}

// Validate проверяет обязательные поля адреса.
func (a Address) Validate() error {
	if a.Title == "" || a.FullName == "" || a.Phone == "" ||
		a.City == "" || a.District == "" || a.AddressDetails == "" || a.PostalCode == "" {
		return ErrAddressIncomplete
	}
	return nil
}

// SetDefaultAddress выставляет default-флаг ровно одному адресу коллекции,
// снимая его со всех остальных (инвариант «не более одного default»).
func SetDefaultAddress(addresses []Address, id string) bool {
	found := false
	for idx := range addresses {
		if addresses[idx].ID == id {
			addresses[idx].IsDefault = true
			found = true
		} else {
			addresses[idx].IsDefault = false
		}
	}
	return found
}

// DefaultAddress возвращает адрес с default-флагом, если он есть.
func DefaultAddress(addresses []Address) (Address, bool) {
	for _, addr := range addresses {
		if addr.IsDefault {
			return addr, true
		}
	}
	return Address{}, false
}
