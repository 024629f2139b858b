package client

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

type contextKey struct{ name string }

// requiresAuthKey помечает запросы, для которых 401 означает «попробовать refresh».
var requiresAuthKey = contextKey{"requires-auth"}

func withAuthRequired(ctx context.Context) context.Context {
	return context.WithValue(ctx, requiresAuthKey, true)
}

func authRequired(ctx context.Context) bool {
	v, _ := ctx.Value(requiresAuthKey).(bool)
	return v
}

// authRefreshTransport — декоратор транспорта, реализующий политику
// «401 → один refresh → один повтор». Политика живёт в транспорте, а не в
// каждом вызове, поэтому методы клиента о ней не знают.
type authRefreshTransport struct {
	base    http.RoundTripper
	jar     http.CookieJar
	refresh func(ctx context.Context) error
	logger  *log.Entry
}

// RoundTrip пропускает успешные и неавторизованные запросы как есть;
// на 401 аутентифицированного вызова выполняет ровно один refresh и повтор.
func (t *authRefreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !authRequired(req.Context()) {
		return resp, nil
	}

	_ = resp.Body.Close()
	t.logger.Debug("got 401, attempting token refresh")

	if err := t.refresh(req.Context()); err != nil {
		// Refresh не удался: сессия невосстановима, вызывающая сторона
		// обязана увести пользователя на страницу входа.
		t.logger.WithError(err).Warn("token refresh failed")
		return nil, domain.ErrAuthExpired
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	// http.Client проставляет заголовок Cookie из jar до RoundTrip, то есть
	// клон несёт cookie, выданные до refresh. Подставляем актуальные.
	retry.Header.Del("Cookie")
	if t.jar != nil {
		for _, cookie := range t.jar.Cookies(retry.URL) {
			retry.AddCookie(cookie)
		}
	}
	// Повтор идёт напрямую в базовый транспорт: второго refresh не будет.
	return t.base.RoundTrip(retry)
}
