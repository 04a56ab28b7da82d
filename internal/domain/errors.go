package domain

import "errors"

var (
	ErrClientNotFound  = errors.New("cliente no encontrado")
	ErrSpaceNotFound   = errors.New("espacio no encontrado")
	ErrRateNotFound    = errors.New("tarifa no encontrada o inactiva")
	ErrTicketNotFound  = errors.New("ticket no encontrado")
	ErrInvalidID       = errors.New("identificador invalido")
	ErrInvalidInput    = errors.New("datos requeridos faltantes o invalidos")
	ErrDuplicateNIT    = errors.New("nit ya registrado")
	ErrClientInUse     = errors.New("cliente con tickets asociados")
	ErrDuplicateNumber = errors.New("numero de espacio ya existe")
	ErrSpaceInUse      = errors.New("espacio con ticket activo")
	ErrSpaceOccupied   = errors.New("espacio no disponible (ocupado o reservado)")
	ErrSpaceNotHeld    = errors.New("espacio ya estaba libre")
	ErrDuplicateRate   = errors.New("tarifa con descripcion ya existe y esta activa")
	ErrRateInUse       = errors.New("tarifa en uso por tickets activos")
	ErrNoActiveRate    = errors.New("no hay tarifas activas disponibles")
	ErrTicketNotActive = errors.New("ticket ya finalizado o cancelado")

	// ErrNegativeDuration marks an exit timestamp earlier than the entry.
	ErrNegativeDuration = errors.New("hora de salida anterior a la de ingreso")

	// ErrSpaceReleaseFailed distinguishes a failed space release on exit
	// from a failed ticket close; the transaction is rolled back either
	// way, but callers log this case separately.
	ErrSpaceReleaseFailed = errors.New("no se pudo liberar el espacio")
)
