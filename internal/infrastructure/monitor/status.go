package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	AuditSpill bool      `json:"audit_spill"`
	SpillSize  int       `json:"spill_size"`
	LastCheck  time.Time `json:"last_check"`
}
