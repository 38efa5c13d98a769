package dto

import "time"

// CreateReferenceRequest entrada para crear un recurso, unidad o cliente.
type CreateReferenceRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address"` // solo clientes
}

// UpdateReferenceRequest entrada para renombrar (y cambiar dirección del cliente).
type UpdateReferenceRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
}

// ReferenceResponse salida de un dato maestro.
type ReferenceResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReferenceListResponse lista paginada de datos maestros.
type ReferenceListResponse struct {
	Items []ReferenceResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
