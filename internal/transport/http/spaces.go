package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/umgjosem/Arqui-parqueo/internal/app"
	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

// SpaceRegistry is the minimal interface the space handlers need.
type SpaceRegistry interface {
	Create(ctx context.Context, in app.CreateSpaceInput) (domain.Space, error)
	Get(ctx context.Context, id string) (app.SpaceDetail, error)
	List(ctx context.Context) ([]domain.Space, error)
	Availability(ctx context.Context, id string) (domain.Space, error)
	Update(ctx context.Context, id string, in app.UpdateSpaceInput) (domain.Space, error)
	Delete(ctx context.Context, id string) error
}

// HandleSpaces serves the space collection: list and creation.
func HandleSpaces(svc SpaceRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			spaces, err := svc.List(r.Context())
			if err != nil {
				respondServiceError(w, "Error al obtener los espacios", err)
				return
			}
			out := make([]spaceJSON, 0, len(spaces))
			for _, s := range spaces {
				out = append(out, toSpaceJSON(s))
			}
			writeData(w, http.StatusOK, "Espacios obtenidos exitosamente", out)
		case http.MethodPost:
			var req spaceRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud invalido")
				return
			}
			space, err := svc.Create(r.Context(), app.CreateSpaceInput{
				Number: req.Number,
				State:  req.State,
			})
			if err != nil {
				respondServiceError(w, "Error al crear el espacio", err)
				return
			}
			writeData(w, http.StatusCreated, "Espacio creado exitosamente", toSpaceJSON(space))
		default:
			methodNotAllowed(w)
		}
	}
}

// HandleSpaceByID serves /api/espacios/{id} and the availability probe
// /api/espacios/{id}/estado.
func HandleSpaceByID(svc SpaceRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, probe, ok := parseSpacePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, "Recurso no encontrado")
			return
		}

		if probe {
			if r.Method != http.MethodGet {
				methodNotAllowed(w)
				return
			}
			space, err := svc.Availability(r.Context(), id)
			if err != nil {
				respondServiceError(w, "Error al consultar el estado del espacio", err)
				return
			}
			writeData(w, http.StatusOK, "Estado del espacio obtenido exitosamente", spaceStateJSON{
				ID:        space.ID,
				Number:    space.Number,
				State:     string(space.State),
				Available: space.Available(),
			})
			return
		}

		switch r.Method {
		case http.MethodGet:
			detail, err := svc.Get(r.Context(), id)
			if err != nil {
				respondServiceError(w, "Error al obtener el espacio", err)
				return
			}
			tickets := make([]ticketJSON, 0, len(detail.Tickets))
			for _, t := range detail.Tickets {
				tickets = append(tickets, toTicketJSON(t))
			}
			writeData(w, http.StatusOK, "Espacio obtenido exitosamente", spaceDetailJSON{
				spaceJSON: toSpaceJSON(detail.Space),
				Tickets:   tickets,
			})
		case http.MethodPut:
			var req spaceRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud invalido")
				return
			}
			space, err := svc.Update(r.Context(), id, app.UpdateSpaceInput{
				Number: req.Number,
				State:  req.State,
			})
			if err != nil {
				respondServiceError(w, "Error al actualizar el espacio", err)
				return
			}
			writeData(w, http.StatusOK, "Espacio actualizado exitosamente", toSpaceJSON(space))
		case http.MethodDelete:
			if err := svc.Delete(r.Context(), id); err != nil {
				respondServiceError(w, "Error al eliminar el espacio", err)
				return
			}
			writeData(w, http.StatusOK, "Espacio eliminado exitosamente", nil)
		default:
			methodNotAllowed(w)
		}
	}
}

// parseSpacePath recognizes /api/espacios/{id} and
// /api/espacios/{id}/estado.
func parseSpacePath(path string) (id string, probe bool, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || parts[0] != "api" || parts[1] != "espacios" || parts[2] == "" {
		return "", false, false
	}
	switch len(parts) {
	case 3:
		return parts[2], false, true
	case 4:
		if parts[3] != "estado" {
			return "", false, false
		}
		return parts[2], true, true
	default:
		return "", false, false
	}
}

type spaceRequest struct {
	Number string `json:"numero"`
	State  string `json:"estado"`
}

type spaceDetailJSON struct {
	spaceJSON
	Tickets []ticketJSON `json:"tickets"`
}

type spaceStateJSON struct {
	ID        string `json:"id_espacio"`
	Number    string `json:"numero"`
	State     string `json:"estado"`
	Available bool   `json:"disponible"`
}
