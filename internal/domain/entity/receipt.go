package entity

import "time"

// Receipt documento de recepción de mercancía. Todas sus líneas suman al saldo
// mientras el documento exista.
type Receipt struct {
	ID        string
	Number    string
	Date      time.Time
	Lines     []DocumentLine
	Version   int64 // token de concurrencia optimista
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReplaceLines reemplaza el conjunto de líneas y las ata al documento.
func (r *Receipt) ReplaceLines(lines []DocumentLine) {
	r.Lines = bindLines(r.ID, lines)
}

// Clone copia profunda del documento.
func (r *Receipt) Clone() *Receipt {
	c := *r
	c.Lines = CloneLines(r.Lines)
	return &c
}
