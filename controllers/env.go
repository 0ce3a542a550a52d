package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"balloonshop/cart"
	"balloonshop/mail"
	"balloonshop/middleware"
	"balloonshop/notify"
	"balloonshop/storage"
	"balloonshop/tables"
)

// Env carries what the handlers need. Handlers are methods so tests can
// build an Env over in-memory stores.
type Env struct {
	Tables   tables.Client
	Carts    storage.KV
	Sessions *cart.Sessions
	Mailer   mail.Sender
	Logger   *zap.Logger
	Timeout  time.Duration
}

func (e *Env) context(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// withCart runs fn with the caller's cart loaded, holding the session lock
// for the duration so requests from one browser never interleave.
func (e *Env) withCart(c *gin.Context, fn func(ctx context.Context, store *cart.Store, rec *notify.Recorder)) {
	ctx, cancel := e.context(c)
	defer cancel()

	key := cart.Key(middleware.CartSessionID(c))
	unlock := e.Sessions.Lock(key)
	defer unlock()

	rec := &notify.Recorder{}
	store := cart.Load(ctx, e.Carts, key, cart.WithNotifier(rec), cart.WithLogger(e.Logger))
	fn(ctx, store, rec)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.NotValid), errors.Is(err, errors.BadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errors.NotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
