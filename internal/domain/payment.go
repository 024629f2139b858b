package domain

// PaymentStatus описывает результат операции у платёжного провайдера.
type PaymentStatus string

const (
	// PaymentStatusAuthorized — средства захолдированы.
	PaymentStatusAuthorized PaymentStatus = "authorized"
	// PaymentStatusCaptured — средства списаны.
	PaymentStatusCaptured PaymentStatus = "captured"
	// PaymentStatusDeclined — провайдер отклонил операцию.
	PaymentStatusDeclined PaymentStatus = "declined"
)

// PaymentCard — карточные данные формы оплаты. Демо-поток: данные не
// сохраняются и наружу не логируются.
type PaymentCard struct {
	Number      string `json:"cardNumber"`
	Holder      string `json:"cardHolder"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CVV         string `json:"cvv"`
}

// PaymentSubmission — полный ввод шага оплаты.
type PaymentSubmission struct {
	Card        PaymentCard `json:"card"`
	Agreements  Agreements  `json:"agreements"`
	AmountMinor int64       `json:"amount_minor"`
	Currency    string      `json:"currency"`
}
