package notify

import (
	"context"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

var _ inventory.Notifier = (*LogNotifier)(nil)

// LogNotifier registra los eventos en el log; se usa cuando no hay Redis configurado.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("notifier")}
}

func (n *LogNotifier) Notify(_ context.Context, e inventory.DocumentEvent) {
	n.log.Info().
		Str("type", e.Type).
		Str("document_kind", e.DocumentKind).
		Str("document_id", e.DocumentID).
		Str("number", e.Number).
		Msg("evento de documento")
}
