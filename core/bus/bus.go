package bus

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jhunt/go-log"
)

const (
	ErrorEvent      = "error"
	CreatePostEvent = "create-post"
	DeletePostEvent = "delete-post"
	DeleteFileEvent = "delete-file"
)

// Everyone is the queue that every registered client receives.
const Everyone = "*"

type Event struct {
	Event string      `json:"event"`
	Queue string      `json:"queue"`
	Type  string      `json:"type,omitempty"`
	Data  interface{} `json:"data"`
}

type Bus struct {
	lock  sync.Mutex
	slots []slot
	//slotMap maps unique identifiers given to clients to slot slice indices
	slotMap map[int64]int
	backlog int

	lifetime, current, dropped struct {
		connections int64
	}
	events   map[string]int64
	messages map[string]int64
}

type slot struct {
	ch         chan Event
	id         int64
	mostQueued int
	acl        map[string]bool
}

// New returns a Bus with room for n clients, each of which may fall at
// most backlog events behind before it is dropped.
func New(n, backlog int) *Bus {
	return &Bus{
		slots:    make([]slot, n),
		slotMap:  make(map[int64]int, n),
		backlog:  backlog,
		events:   make(map[string]int64),
		messages: make(map[string]int64),
	}
}

// BoardQueue names the queue carrying events for a single board.
func BoardQueue(board string) string {
	return "board:" + board
}

func (b *Bus) Register(queues []string) (chan Event, int64, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	for i := range b.slots {
		if b.slots[i].ch == nil {
			b.current.connections += 1
			b.lifetime.connections += 1
			b.slots[i].id = b.lifetime.connections
			b.slotMap[b.lifetime.connections] = i

			b.slots[i].ch = make(chan Event, b.backlog)
			b.slots[i].acl = make(map[string]bool)
			for _, q := range queues {
				b.slots[i].acl[q] = true
			}

			return b.slots[i].ch, b.slots[i].id, nil
		}
	}

	return nil, -1, fmt.Errorf("too many message bus clients")
}

//Unregister causes the bus to stop routing events to the client with the given ID.
// The channel returned from the matching call to Register is closed. Multiple calls
// to Unregister with the same id are idempotent.
func (b *Bus) Unregister(id int64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.unregister(id)
}

func (b *Bus) unregister(id int64) {
	idx, found := b.slotMap[id]
	if !found {
		return //already closed. moving on.
	}

	delete(b.slotMap, id)
	if idx < 0 || idx >= len(b.slots) {
		log.Errorf("could not unregister channel #%d: index out of range", idx)
		panic(fmt.Sprintf("could not unregister channel #%d: index out of range", idx))
	}

	b.current.connections -= 1
	close(b.slots[idx].ch)
	b.slots[idx].ch = nil
	b.slots[idx].acl = nil
	b.slots[idx].mostQueued = 0
	b.slots[idx].id = -1
}

func (b *Bus) SendError(err error, queues ...string) {
	b.SendEvent(queues, Event{
		Event: ErrorEvent,
		Data:  map[string]interface{}{"error": err.Error()},
	})
}

func (b *Bus) Send(event, typ string, thing interface{}, queues ...string) {
	b.SendEvent(queues, Event{
		Event: event,
		Type:  typ,
		Data:  marshal(thing),
	})
}

// SendEvent delivers ev to every client registered for one of queues.
// Clients whose backlog is full are dropped.
func (b *Bus) SendEvent(queues []string, ev Event) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.events[ev.Event] += 1
	for i, s := range b.slots {
		if s.ch == nil {
			continue
		}

		for _, q := range queues {
			if q == Everyone || s.acl[q] || s.acl[Everyone] {
				ev.Queue = q
				select {
				case s.ch <- ev:
					queued := len(s.ch)
					if queued > s.mostQueued {
						b.slots[i].mostQueued = queued
					}
					b.messages[ev.Event] += 1
				default:
					log.Warnf("dropping message bus client #%d: backlog of %d events is full", s.id, b.backlog)
					b.unregister(s.id)
					b.dropped.connections++
				}
				break
			}
		}
	}
}

// marshal flattens thing into the generic form a websocket client will
// see, so that every subscriber observes the same field names.
func marshal(thing interface{}) interface{} {
	if thing == nil {
		return nil
	}

	b, err := json.Marshal(thing)
	if err != nil {
		log.Errorf("unable to marshal %T for the message bus: %s", thing, err)
		return nil
	}

	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		log.Errorf("unable to unmarshal %T for the message bus: %s", thing, err)
		return nil
	}
	return out
}
