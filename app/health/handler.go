package health

import (
	"context"
	"net/http"
	"time"

	"github.com/obrafurniture/quote-service/app/api"
	"github.com/obrafurniture/quote-service/pkg/logger"
)

const checkTimeout = 2 * time.Second

// Pinger is satisfied by the db and redis clients.
type Pinger interface {
	Ping(context.Context) error
}

type Response struct {
	Status   string            `json:"status"`
	Env      string            `json:"env"`
	Products int               `json:"products"`
	Checks   map[string]string `json:"checks"`
}

type HealthHandler struct {
	env      string
	products func() int
	checks   map[string]Pinger
	logg     *logger.Logger
}

// NewHealthHandler reports on the named dependencies. products returns the
// size of the loaded catalog.
func NewHealthHandler(env string, products func() int, checks map[string]Pinger, logg *logger.Logger) *HealthHandler {
	if logg == nil {
		logg = logger.Nop()
	}
	return &HealthHandler{env: env, products: products, checks: checks, logg: logg}
}

func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	resp := Response{Status: "ok", Env: h.env, Checks: map[string]string{}}
	if h.products != nil {
		resp.Products = h.products()
	}
	for name, p := range h.checks {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = "error"
			h.logg.Error(h.logg.WithField(ctx, "dependency", name), "health.check_failed", err)
			continue
		}
		resp.Checks[name] = "ok"
	}

	w.Header().Set("X-Obra-Env", h.env)
	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	api.WriteJSON(w, status, resp)
}
