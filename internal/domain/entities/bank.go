package entities

// Bank is one entry from the partner bank list
type Bank struct {
	IIN  string `json:"iin"`
	Name string `json:"name"`
}

// BankSelection is the bank chosen on the transaction form
type BankSelection struct {
	BankCode string `json:"bankCode" binding:"required"`
	BankName string `json:"bankName"`
}

// IsZero reports whether no bank has been selected
func (b BankSelection) IsZero() bool {
	return b.BankCode == ""
}
