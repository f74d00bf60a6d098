package models

import (
	"time"

	"github.com/google/uuid"
)

// Joven is a participant registered under one monitor for one event.
// Documentos and pagos belong to it exclusively and are removed with it.
type Joven struct {
	ID            uuid.UUID `json:"id"`
	Nombre        string    `json:"nombre"`
	Apellidos     string    `json:"apellidos"`
	MonitorID     uuid.UUID `json:"monitor_id"`
	EventoID      uuid.UUID `json:"evento_id"`
	CreadoEn      time.Time `json:"creado_en"`
	ActualizadoEn time.Time `json:"actualizado_en"`
}

// JovenResumen is the monitor-list row with per-youth aggregates.
type JovenResumen struct {
	ID                uuid.UUID `json:"id"`
	Nombre            string    `json:"nombre"`
	Apellidos         string    `json:"apellidos"`
	EventoID          uuid.UUID `json:"evento_id"`
	CreadoEn          time.Time `json:"creado_en"`
	DocumentosCount   int       `json:"documentos_count"`
	PagosCount        int       `json:"pagos_count"`
	TotalPagado       float64   `json:"total_pagado"`
	DescuentoAplicado float64   `json:"descuento_aplicado"`
	TratoEspecial     bool      `json:"trato_especial"`
}
