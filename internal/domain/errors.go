package domain

import "errors"

var (
	// Ошибка перехода 1→2 без выбранного адреса доставки.
	ErrAddressRequired = errors.New("delivery address is required")
	// Ошибка перехода 1→2 без контактного email.
	ErrContactEmailRequired = errors.New("contact email is required")
	// Ошибка перехода 1→2 без контактного телефона.
	ErrContactPhoneRequired = errors.New("contact phone is required")
	// Ошибка перехода 2→3 без выбранного способа доставки.
	ErrShippingMethodRequired = errors.New("shipping method is required")
	// Ошибка выбора неизвестного способа доставки.
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	// Ошибка оплаты без принятия всех трёх соглашений.
	ErrAgreementsRequired = errors.New("all agreements must be accepted")
	// Ошибка любой операции над завершённым чекаутом (шаг 4 терминальный).
	ErrCheckoutCompleted = errors.New("checkout already completed")
	// Ошибка отката с первого шага.
	ErrNoPreviousStep = errors.New("no previous step")
	// Ошибка попытки оплаты не на шаге Payment.
	ErrPaymentStepRequired = errors.New("payment is allowed only on the payment step")
	// Ошибка превышения лимита длины комментария к доставке.
	ErrNotesTooLong = errors.New("delivery notes exceed the allowed length")
	// Ошибка нового адреса без обязательных полей.
	ErrAddressIncomplete = errors.New("address is missing required fields")
	// ErrItemNotFound возвращается, если позиции нет в корзине.
	ErrItemNotFound = errors.New("cart item not found")
	// Ошибка некорректного количества (< 1).
	ErrQuantityInvalid = errors.New("quantity must be at least 1")
	// Ошибка неизвестного кода купона.
	ErrCouponInvalid = errors.New("invalid coupon code")
	// ErrSessionNotFound возвращается, если состояние чекаута не найдено в хранилище.
	ErrSessionNotFound = errors.New("checkout session not found")
	// ErrStateCorrupted сигнализирует о нечитаемом сохранённом состоянии;
	// вызывающая сторона обязана деградировать к состоянию по умолчанию.
	ErrStateCorrupted = errors.New("persisted checkout state is corrupted")
	// ErrPaymentDeclined — платёж отклонён провайдером (бизнес-ошибка).
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrPaymentTemporary — временная ошибка платёжного провайдера, можно повторить.
	ErrPaymentTemporary = errors.New("payment temporary error")
	// ErrAuthExpired — сессия истекла и refresh не удался; требуется повторный вход.
	ErrAuthExpired = errors.New("authentication required")
)

// IsValidationError проверяет, относится ли ошибка к guard-ошибкам переходов,
// которые UI показывает inline и которые не требуют повторного запроса.
func IsValidationError(err error) bool {
	for _, e := range []error{
		ErrAddressRequired,
		ErrContactEmailRequired,
		ErrContactPhoneRequired,
		ErrShippingMethodRequired,
		ErrUnknownShippingMethod,
		ErrAgreementsRequired,
		ErrNotesTooLong,
		ErrAddressIncomplete,
		ErrQuantityInvalid,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
