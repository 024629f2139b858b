package domain

// Step нумерует шаги чекаута; поток линейный, без пропусков.
type Step int

const (
	// StepDelivery — выбор адреса и контактных данных.
	StepDelivery Step = 1
	// StepShipping — выбор способа доставки и комментарий курьеру.
	StepShipping Step = 2
	// StepPayment — оплата и принятие соглашений.
	StepPayment Step = 3
	// StepConfirmation — терминальный шаг с номером заказа.
	StepConfirmation Step = 4
)

// String возвращает человекочитаемое имя шага для логов и событий.
func (s Step) String() string {
	switch s {
	case StepDelivery:
		return "delivery"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

// MaxDeliveryNotesLen ограничивает длину комментария к доставке (в рунах).
const MaxDeliveryNotesLen = 500

// CheckoutState — полное состояние незавершённого чекаута.
// JSON-представление совместимо с layout'ом, который фронтенд хранил
// под ключом checkoutState в localStorage.
type CheckoutState struct {
	Step              Step      `json:"step"`
	SelectedAddressID string    `json:"selectedAddressId,omitempty"`
	NewAddresses      []Address `json:"newAddresses"`
	ContactEmail      string    `json:"contactEmail"`
	ContactPhone      string    `json:"contactPhone"`
	SelectedShipping  string    `json:"selectedShipping,omitempty"`
	ShippingCostMinor int64     `json:"shippingCost"`
	DeliveryNotes     string    `json:"deliveryNotes"`
	OrderNumber       string    `json:"orderNumber,omitempty"`
}

// NewCheckoutState возвращает состояние по умолчанию: первый шаг, пустые поля.
func NewCheckoutState() CheckoutState {
	return CheckoutState{
		Step:         StepDelivery,
		NewAddresses: []Address{},
	}
}

// SelectedAddress возвращает выбранный адрес доставки, если он есть.
func (s CheckoutState) SelectedAddress() (Address, bool) {
	for _, addr := range s.NewAddresses {
		if addr.ID == s.SelectedAddressID {
			return addr, true
		}
	}
	return Address{}, false
}

// Completed сообщает, достигнут ли терминальный шаг.
// Инвариант: шаг 4 требует непустого номера заказа.
func (s CheckoutState) Completed() bool {
	return s.Step == StepConfirmation && s.OrderNumber != ""
}

// Agreements — три обязательных соглашения шага оплаты.
type Agreements struct {
	PreInfo       bool `json:"preInfo"`
	DistanceSales bool `json:"distanceSales"`
	Privacy       bool `json:"privacy"`
}

// AllAccepted проверяет, что приняты все три соглашения.
func (a Agreements) AllAccepted() bool {
	return a.PreInfo && a.DistanceSales && a.Privacy
}

// OrderTotals — производные суммы заказа; не хранятся, пересчитываются по требованию.
type OrderTotals struct {
	SubtotalMinor int64 `json:"subtotal_minor"`
	ShippingMinor int64 `json:"shipping_minor"`
	DiscountMinor int64 `json:"discount_minor"`
	TotalMinor    int64 `json:"total_minor"`
}
