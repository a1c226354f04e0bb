package equipment

import (
	"net/http"

	"toolhub/infras/otel"
	"toolhub/internal/domains/equipment/model/dto"
	"toolhub/internal/domains/equipment/service"
	"toolhub/shared/constant"
	"toolhub/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Directory
	otel    otel.Otel
}

func New(service service.Directory, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/equipment", func(routerGroup chi.Router) {
		routerGroup.Get("/available", handler.ListAvailable)
	})
}

// ListAvailable lists the items of one kind that can be reserved right now.
// @Summary List available equipment
// @Description List electric or manual equipment whose status allows a reservation.
// @Tags Equipment
// @Produce json
// @Param kind query string true "Equipment kind (electric, manual)"
// @Param search query string false "Matches name, code or brand"
// @Success 200 {object} response.Data[dto.ListAvailableResponse] "Available equipment"
// @Failure 400 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/equipment/available [get]
func (handler *Handler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListAvailable")
	defer scope.End()

	req := dto.ListAvailableRequest{}
	req.FromRequest(r)

	res, err := handler.service.ListAvailable(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list available equipment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Available equipment listed")

	response.WithJSON(w, http.StatusOK, res)
}
