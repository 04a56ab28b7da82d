package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/umgjosem/Arqui-parqueo/internal/app"
	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

// ClientDirectory is the minimal interface the client handlers need.
type ClientDirectory interface {
	Create(ctx context.Context, in app.CreateClientInput) (domain.Client, error)
	Get(ctx context.Context, id string) (domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, id string, in app.UpdateClientInput) (domain.Client, error)
	Delete(ctx context.Context, id string) error
}

// HandleClients serves the client collection: list and registration.
func HandleClients(svc ClientDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			clients, err := svc.List(r.Context())
			if err != nil {
				respondServiceError(w, "Error al obtener los clientes", err)
				return
			}
			out := make([]clientJSON, 0, len(clients))
			for _, c := range clients {
				out = append(out, toClientJSON(c))
			}
			writeData(w, http.StatusOK, "Clientes obtenidos exitosamente", out)
		case http.MethodPost:
			var req clientRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud invalido")
				return
			}
			client, err := svc.Create(r.Context(), app.CreateClientInput{
				NIT:   req.NIT,
				Name:  req.Name,
				Plate: req.Plate,
			})
			if err != nil {
				respondServiceError(w, "Error al crear el cliente", err)
				return
			}
			writeData(w, http.StatusCreated, "Cliente creado exitosamente", toClientJSON(client))
		default:
			methodNotAllowed(w)
		}
	}
}

// HandleClientByID serves a single client: detail, update and delete.
func HandleClientByID(svc ClientDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseClientPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, "Recurso no encontrado")
			return
		}

		switch r.Method {
		case http.MethodGet:
			client, err := svc.Get(r.Context(), id)
			if err != nil {
				respondServiceError(w, "Error al obtener el cliente", err)
				return
			}
			writeData(w, http.StatusOK, "Cliente obtenido exitosamente", toClientJSON(client))
		case http.MethodPut:
			var req clientRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud invalido")
				return
			}
			client, err := svc.Update(r.Context(), id, app.UpdateClientInput{
				NIT:   req.NIT,
				Name:  req.Name,
				Plate: req.Plate,
			})
			if err != nil {
				respondServiceError(w, "Error al actualizar el cliente", err)
				return
			}
			writeData(w, http.StatusOK, "Cliente actualizado exitosamente", toClientJSON(client))
		case http.MethodDelete:
			if err := svc.Delete(r.Context(), id); err != nil {
				respondServiceError(w, "Error al eliminar el cliente", err)
				return
			}
			writeData(w, http.StatusOK, "Cliente eliminado exitosamente", nil)
		default:
			methodNotAllowed(w)
		}
	}
}

// parseClientPath extracts the id from /api/clientes/{id}.
func parseClientPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "api" || parts[1] != "clientes" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

type clientRequest struct {
	NIT   string `json:"nit"`
	Name  string `json:"nombre"`
	Plate string `json:"placa"`
}
