package client

import (
	"encoding/json"
	"fmt"
)

// APIError — типизированная ошибка backend-API: HTTP-статус плюс
// best-effort извлечённое сообщение. Вызывающие различают 401
// (refresh-retry внутри транспорта) и остальные статусы (отдаются наверх,
// автоматических повторов нет).
type APIError struct {
	Status  int
	Message string
	// Data — сырое тело ошибки для диагностики.
	Data json.RawMessage
}

// Error реализует error.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// parseAPIError извлекает сообщение из известных форматов тела ошибки:
// error, detail, message или первое значение field-error map
// (например {"email": ["Email already exists"]}).
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: "Request failed", Data: body}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return apiErr
	}

	for _, key := range []string{"error", "detail", "message"} {
		var msg string
		if raw, ok := payload[key]; ok && json.Unmarshal(raw, &msg) == nil && msg != "" {
			apiErr.Message = msg
			return apiErr
		}
	}

	// Field-error map: берём первое сообщение первого поля.
	for _, raw := range payload {
		var fieldErrs []string
		if json.Unmarshal(raw, &fieldErrs) == nil && len(fieldErrs) > 0 {
			apiErr.Message = fieldErrs[0]
			return apiErr
		}
	}
	return apiErr
}
