package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/umgjosem/Arqui-parqueo/internal/app"
	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

// ParkingSession covers the entry/exit lifecycle the ticket handlers
// expose.
type ParkingSession interface {
	RegisterEntry(ctx context.Context, in app.EntryInput) (app.EntryResult, error)
	RegisterExit(ctx context.Context, ticketID string) (app.ExitResult, error)
	CancelTicket(ctx context.Context, ticketID string) (domain.Ticket, error)
}

// TicketLedger covers ticket queries and administrative edits.
type TicketLedger interface {
	Create(ctx context.Context, in app.CreateTicketInput) (domain.Ticket, error)
	Update(ctx context.Context, ticketID string, in app.UpdateTicketInput) (domain.Ticket, error)
	Get(ctx context.Context, id string) (domain.TicketDetail, error)
	List(ctx context.Context, status string) ([]domain.TicketDetail, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error)
}

// HandleTickets serves the ticket collection: filtered listing and the
// administrative create with an explicit entry time.
func HandleTickets(ledger TicketLedger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			details, err := ledger.List(r.Context(), r.URL.Query().Get("estado"))
			if err != nil {
				respondServiceError(w, "Error al obtener los tickets", err)
				return
			}
			out := make([]ticketDetailJSON, 0, len(details))
			for _, d := range details {
				out = append(out, toTicketDetailJSON(d))
			}
			writeData(w, http.StatusOK, "Tickets obtenidos exitosamente", out)
		case http.MethodPost:
			var req createTicketRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud invalido")
				return
			}
			ticket, err := ledger.Create(r.Context(), app.CreateTicketInput{
				ClientID:  req.ClientID,
				SpaceID:   req.SpaceID,
				RateID:    req.RateID,
				EntryTime: req.EntryTime,
			})
			if err != nil {
				respondServiceError(w, "Error al crear el ticket", err)
				return
			}
			writeData(w, http.StatusCreated, "Ticket creado exitosamente", toTicketJSON(ticket))
		default:
			methodNotAllowed(w)
		}
	}
}

// HandleTicketRoutes serves everything under /api/tickets/: vehicle
// entry, per-ticket detail, edits, exit and cancellation, and the
// per-client history.
func HandleTicketRoutes(session ParkingSession, ledger TicketLedger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) < 3 || parts[0] != "api" || parts[1] != "tickets" {
			writeError(w, http.StatusNotFound, "Recurso no encontrado")
			return
		}

		switch {
		case len(parts) == 3 && parts[2] == "entrada":
			handleEntry(session, w, r)
		case len(parts) == 4 && parts[2] == "cliente" && parts[3] != "":
			handleTicketsByClient(ledger, parts[3], w, r)
		case len(parts) == 4 && parts[3] == "salida" && parts[2] != "":
			handleExit(session, parts[2], w, r)
		case len(parts) == 3 && parts[2] != "":
			handleTicketByID(session, ledger, parts[2], w, r)
		default:
			writeError(w, http.StatusNotFound, "Recurso no encontrado")
		}
	}
}

func handleEntry(session ParkingSession, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req entryRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud invalido")
		return
	}

	res, err := session.RegisterEntry(r.Context(), app.EntryInput{
		ClientID: req.ClientID,
		SpaceID:  req.SpaceID,
		RateID:   req.RateID,
	})
	if err != nil {
		respondServiceError(w, "Error al registrar la entrada", err)
		return
	}

	writeData(w, http.StatusCreated, "Entrada registrada exitosamente. Espacio ocupado.", entryResponse{
		Ticket: toTicketJSON(res.Ticket),
		Client: toClientJSON(res.Client),
		Space:  toSpaceJSON(res.Space),
		Rate:   toRateJSON(res.Rate),
	})
}

func handleExit(session ParkingSession, id string, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}

	res, err := session.RegisterExit(r.Context(), id)
	if err != nil {
		respondServiceError(w, "Error al registrar la salida", err)
		return
	}

	writeData(w, http.StatusOK, "Salida registrada y cobro calculado exitosamente. Espacio liberado.", toTicketJSON(res.Ticket))
}

func handleTicketByID(session ParkingSession, ledger TicketLedger, id string, w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		detail, err := ledger.Get(r.Context(), id)
		if err != nil {
			respondServiceError(w, "Error al obtener el ticket", err)
			return
		}
		writeData(w, http.StatusOK, "Ticket obtenido exitosamente", toTicketDetailJSON(detail))
	case http.MethodPut:
		var req updateTicketRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud invalido")
			return
		}
		ticket, err := ledger.Update(r.Context(), id, app.UpdateTicketInput{
			ClientID: req.ClientID,
			SpaceID:  req.SpaceID,
			RateID:   req.RateID,
		})
		if err != nil {
			respondServiceError(w, "Error al actualizar el ticket", err)
			return
		}
		writeData(w, http.StatusOK, "Ticket actualizado exitosamente", toTicketJSON(ticket))
	case http.MethodDelete:
		ticket, err := session.CancelTicket(r.Context(), id)
		if err != nil {
			respondServiceError(w, "Error al cancelar el ticket", err)
			return
		}
		writeData(w, http.StatusOK, "Ticket cancelado exitosamente. Espacio liberado.", toTicketJSON(ticket))
	default:
		methodNotAllowed(w)
	}
}

func handleTicketsByClient(ledger TicketLedger, clientID string, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	tickets, err := ledger.ListByClient(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, "Error al obtener los tickets del cliente", err)
		return
	}
	out := make([]ticketJSON, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketJSON(t))
	}
	writeData(w, http.StatusOK, "Tickets del cliente obtenidos exitosamente", out)
}

type entryRequest struct {
	ClientID string `json:"id_cliente"`
	SpaceID  string `json:"id_espacio"`
	RateID   string `json:"id_tarifa"`
}

type entryResponse struct {
	Ticket ticketJSON `json:"ticket"`
	Client clientJSON `json:"cliente"`
	Space  spaceJSON  `json:"espacio"`
	Rate   rateJSON   `json:"tarifa"`
}

type createTicketRequest struct {
	ClientID  string     `json:"id_cliente"`
	SpaceID   string     `json:"id_espacio"`
	RateID    string     `json:"id_tarifa"`
	EntryTime *time.Time `json:"hora_ingreso"`
}

type updateTicketRequest struct {
	ClientID string `json:"id_cliente"`
	SpaceID  string `json:"id_espacio"`
	RateID   string `json:"id_tarifa"`
}
