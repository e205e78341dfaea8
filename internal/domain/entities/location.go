package entities

// Location is a pet-care place (clinic, groomer, hotel, shop) as stored after normalization.
type Location struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}
