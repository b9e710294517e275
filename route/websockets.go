package route

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jhunt/go-log"
)

type WebSocket struct {
	conn    *websocket.Conn
	timeout time.Duration
}

//Upgrade hijacks the connection for a WebSocket session.  On success the
// request is considered answered; on failure an error has been sent and
// nil is returned.
func (r *Request) Upgrade() *WebSocket {
	log.Debugf("%s upgrading to WebSockets", r)

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(r.w, r.Req, nil)
	if err != nil {
		log.Errorf("%s failed to upgrade to WebSockets: %s", r, err)
		r.code = 400
		r.done = true
		return nil
	}

	r.code = 101
	r.done = true
	return &WebSocket{
		conn:    conn,
		timeout: 30 * time.Second,
	}
}

//Discard reads (and throws away) anything the client sends, until the
// client goes away, at which point onclose is called.
func (ws *WebSocket) Discard(onclose func()) {
	for {
		if _, _, err := ws.conn.NextReader(); err != nil {
			log.Debugf("websocket client went away: %s", err)
			ws.conn.Close()
			break
		}
	}
	onclose()
}

func (ws *WebSocket) Write(b []byte) (bool, error) {
	err := ws.conn.SetWriteDeadline(time.Now().Add(ws.timeout))
	if err != nil {
		return true, err
	}
	err = ws.conn.WriteMessage(websocket.TextMessage, b)
	return websocket.IsUnexpectedCloseError(err), err
}

func (ws *WebSocket) SetWriteTimeout(timeout time.Duration) {
	ws.timeout = timeout
}

func (ws *WebSocket) SendClose() error {
	return ws.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(ws.timeout))
}
