// Package notify publica los eventos de ciclo de vida de documentos para consumidores no autoritativos.
package notify

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

const publishTimeout = 2 * time.Second

var _ inventory.Notifier = (*RedisNotifier)(nil)

// RedisNotifier publica eventos en un canal pub/sub de Redis desde una goroutine propia.
// Notify nunca bloquea: si la cola está llena el evento se descarta con un warning.
type RedisNotifier struct {
	client  redis.UniversalClient
	channel string
	log     *logger.Logger

	mu      sync.RWMutex
	closed  bool
	queue   chan inventory.DocumentEvent
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// NewRedisNotifier construye el publicador; llamar Start para comenzar a publicar.
func NewRedisNotifier(client redis.UniversalClient, channel string, buffer int, log *logger.Logger) *RedisNotifier {
	if buffer <= 0 {
		buffer = 256
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisNotifier{
		client:  client,
		channel: channel,
		log:     log.Component("notifier"),
		queue:   make(chan inventory.DocumentEvent, buffer),
	}
}

// Start lanza la goroutine publicadora. Termina cuando se llama Close.
func (n *RedisNotifier) Start() {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for event := range n.queue {
			n.publish(event)
		}
	}()
}

// Notify encola el evento sin bloquear.
func (n *RedisNotifier) Notify(_ context.Context, event inventory.DocumentEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}
	select {
	case n.queue <- event:
	default:
		n.dropped.Add(1)
		n.log.Warn().Str("type", event.Type).Str("document_id", event.DocumentID).Msg("cola de notificaciones llena, evento descartado")
	}
}

// Dropped eventos descartados por cola llena.
func (n *RedisNotifier) Dropped() int64 {
	return n.dropped.Load()
}

// Close deja de aceptar eventos y espera a que se publiquen los pendientes.
func (n *RedisNotifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()
	n.wg.Wait()
}

func (n *RedisNotifier) publish(event inventory.DocumentEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.log.Error().Err(err).Msg("serializar evento")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.log.Error().Err(err).Str("channel", n.channel).Str("document_id", event.DocumentID).Msg("publicar evento")
		return
	}
	n.log.Debug().Str("type", event.Type).Str("document_kind", event.DocumentKind).Str("document_id", event.DocumentID).Msg("evento publicado")
}
