package feed

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/quant/market"
)

// streamTick is the wire format the surrounding application's quote stream
// pushes over the websocket.
type streamTick struct {
	Instrument string  `json:"instrument"`
	Price      float64 `json:"price"`
	Volume     int64   `json:"volume"`
	Time       int64   `json:"time"` // unix milliseconds
}

// Stream maintains a latest-quote cache fed by a websocket. It implements
// market.QuoteProvider; quotes for instruments the stream has not mentioned
// yet return ErrNoQuote.
type Stream struct {
	url string
	log zerolog.Logger

	mu     sync.RWMutex
	quotes map[string]market.Bar
}

// NewStream creates a quote stream client for the given websocket URL.
// Call Run to start consuming.
func NewStream(url string, log zerolog.Logger) *Stream {
	return &Stream{
		url:    url,
		log:    log,
		quotes: make(map[string]market.Bar),
	}
}

// Run consumes the stream until ctx is cancelled, reconnecting with capped
// exponential backoff after any disconnect.
func (s *Stream) Run(ctx context.Context) error {
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := s.consume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("quote stream disconnected, retrying")
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
	}
}

func (s *Stream) consume(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	s.log.Info().Str("url", s.url).Msg("connected quote stream")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		return nil
	})

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-pingCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))

		var tick streamTick
		if err := json.Unmarshal(message, &tick); err != nil {
			s.log.Debug().Err(err).Msg("skipping malformed tick")
			continue
		}
		if tick.Instrument == "" || tick.Price <= 0 {
			continue
		}
		s.apply(tick)
	}
}

func (s *Stream) apply(t streamTick) {
	bar := market.Bar{
		Instrument: t.Instrument,
		Time:       time.UnixMilli(t.Time).UTC(),
		Open:       t.Price,
		High:       t.Price,
		Low:        t.Price,
		Close:      t.Price,
		Volume:     t.Volume,
	}
	s.mu.Lock()
	s.quotes[t.Instrument] = bar
	s.mu.Unlock()
}

// LatestQuote returns the most recent tick seen for the instrument.
func (s *Stream) LatestQuote(_ context.Context, instrument string) (*market.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[instrument]
	if !ok {
		return nil, market.ErrNoQuote
	}
	return &q, nil
}
