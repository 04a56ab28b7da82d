package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/umgjosem/Arqui-parqueo/internal/app"
	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

// RateCatalog is the minimal interface the rate handlers need.
type RateCatalog interface {
	Create(ctx context.Context, in app.CreateRateInput) (domain.Rate, error)
	GetActive(ctx context.Context, id string) (domain.Rate, error)
	ListActive(ctx context.Context) ([]domain.Rate, error)
	Update(ctx context.Context, id string, in app.UpdateRateInput) (domain.Rate, error)
	Deactivate(ctx context.Context, id string) error
}

// HandleRates serves the rate collection: active listing and creation.
func HandleRates(svc RateCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			rates, err := svc.ListActive(r.Context())
			if err != nil {
				respondServiceError(w, "Error al obtener las tarifas", err)
				return
			}
			out := make([]rateJSON, 0, len(rates))
			for _, rt := range rates {
				out = append(out, toRateJSON(rt))
			}
			writeData(w, http.StatusOK, "Tarifas obtenidas exitosamente", out)
		case http.MethodPost:
			var req createRateRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud invalido")
				return
			}
			rate, err := svc.Create(r.Context(), app.CreateRateInput{
				Description:   req.Description,
				AmountPerHour: req.AmountPerHour,
			})
			if err != nil {
				respondServiceError(w, "Error al crear la tarifa", err)
				return
			}
			writeData(w, http.StatusCreated, "Tarifa creada exitosamente", toRateJSON(rate))
		default:
			methodNotAllowed(w)
		}
	}
}

// HandleRateByID serves a single rate: detail, update and deactivation.
// DELETE retires the rate instead of removing the row so historical
// tickets keep their pricing reference.
func HandleRateByID(svc RateCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseRatePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, "Recurso no encontrado")
			return
		}

		switch r.Method {
		case http.MethodGet:
			rate, err := svc.GetActive(r.Context(), id)
			if err != nil {
				respondServiceError(w, "Error al obtener la tarifa", err)
				return
			}
			writeData(w, http.StatusOK, "Tarifa obtenida exitosamente", toRateJSON(rate))
		case http.MethodPut:
			var req updateRateRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud invalido")
				return
			}
			rate, err := svc.Update(r.Context(), id, app.UpdateRateInput{
				Description:   req.Description,
				AmountPerHour: req.AmountPerHour,
				Active:        req.Active,
			})
			if err != nil {
				respondServiceError(w, "Error al actualizar la tarifa", err)
				return
			}
			writeData(w, http.StatusOK, "Tarifa actualizada exitosamente", toRateJSON(rate))
		case http.MethodDelete:
			if err := svc.Deactivate(r.Context(), id); err != nil {
				respondServiceError(w, "Error al desactivar la tarifa", err)
				return
			}
			writeData(w, http.StatusOK, "Tarifa desactivada exitosamente", nil)
		default:
			methodNotAllowed(w)
		}
	}
}

// parseRatePath extracts the id from /api/tarifas/{id}.
func parseRatePath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "api" || parts[1] != "tarifas" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

type createRateRequest struct {
	Description   string          `json:"descripcion"`
	AmountPerHour decimal.Decimal `json:"monto_por_hora"`
}

type updateRateRequest struct {
	Description   string           `json:"descripcion"`
	AmountPerHour *decimal.Decimal `json:"monto_por_hora"`
	Active        *bool            `json:"activo"`
}
