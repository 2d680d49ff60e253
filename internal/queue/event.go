// Package queue defines message payloads exchanged over the message broker.
package queue

// AppointmentConfirmedEvent is published when a master confirms an
// appointment. It carries enough denormalized detail for downstream
// consumers to log or notify without querying the primary database.
type AppointmentConfirmedEvent struct {
	AppointmentID uint64 `json:"appointment_id"`
	ClientID      uint64 `json:"client_id"`
	ClientPhone   string `json:"client_phone"`
	MasterID      uint64 `json:"master_id"`
	MasterName    string `json:"master_name"`
	ServiceID     uint64 `json:"service_id"`
	ServiceName   string `json:"service_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	PriceCents    uint32 `json:"price_cents"`
	ConfirmedAt   string `json:"confirmed_at"`
}
