package models

import "time"

// Typed rows used by the local data source. The remote backend only ever
// hands out opaque Records with the same column names.

type MediaEntry struct {
	Date       time.Time
	Platform   string
	Campaign   string
	Product    string
	Channel    string
	Investment float64
	Leads      int
}

type LeadEntry struct {
	ID          string
	Date        time.Time
	Name        string
	Campaign    string
	Platform    string
	Salesperson string
	Stage       string // cadastrado, agendado, compareceu, contrato
}

type SaleEntry struct {
	ID          string
	LeadID      string
	Date        time.Time
	Campaign    string
	Platform    string
	Salesperson string
	Amount      float64
}
