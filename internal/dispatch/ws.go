package dispatch

import (
	log "log/slog"
	"time"

	ws "github.com/gorilla/websocket"
)

// conn wraps a gorilla websocket with redial-on-close. The daemon
// serializes hub traffic, so no locking here.
type conn struct {
	c      *ws.Conn
	url    string
	reconn time.Duration
}

func dial(url string, reconn time.Duration) (*conn, error) {
	c, _, err := ws.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return &conn{c: c, url: url, reconn: reconn}, nil
}

func (w *conn) close() error {
	return w.c.Close()
}

func (w *conn) write(payload []byte) error {
	err := w.c.WriteMessage(ws.TextMessage, payload)
	if err != nil && isClosed(err) {
		if rerr := w.redial(); rerr != nil {
			return rerr
		}
		return w.c.WriteMessage(ws.TextMessage, payload)
	}
	return err
}

func (w *conn) read(timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		_ = w.c.SetReadDeadline(time.Now().Add(timeout))
	}
	_, msg, err := w.c.ReadMessage()
	if err != nil {
		if isClosed(err) {
			log.Warn("hub connection closed", "url", w.url)
			if rerr := w.redial(); rerr != nil {
				return nil, rerr
			}
		}
		return nil, err
	}
	return msg, nil
}

// redial blocks until the hub accepts a new connection again, waiting
// reconn between attempts, with a cap on total tries.
func (w *conn) redial() error {
	const maxAttempts = 5
	var err error
	for i := 0; i < maxAttempts; i++ {
		var c *ws.Conn
		c, _, err = ws.DefaultDialer.Dial(w.url, nil)
		if err == nil {
			w.c = c
			log.Info("reconnected to hub", "url", w.url)
			return nil
		}
		time.Sleep(w.reconn)
	}
	return err
}

func isClosed(err error) bool {
	return ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure)
}
