package core

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jhunt/go-log"

	"github.com/macaba/mcweb/core/bus"
	"github.com/macaba/mcweb/db"
	"github.com/macaba/mcweb/markup"
	"github.com/macaba/mcweb/route"
)

type apiAttachment struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

func (c *Core) API() http.Handler {
	r := &route.Router{
		Debug: c.Config.Debug,
	}

	r.Dispatch("POST /rest/post/preview", func(r *route.Request) { // {{{
		var in struct {
			Markup string `json:"markup"`
		}
		if !r.Payload(&in) {
			return
		}
		if r.Missing("markup", in.Markup) {
			return
		}

		html, err := markup.Render(c.Config.Markup, in.Markup)
		if err != nil {
			r.Fail(route.Oops(err, "Unable to render post markup"))
			return
		}

		c.metrics.Previewed()
		r.OK(struct {
			HTML string `json:"html"`
		}{HTML: html})
	})
	// }}}
	r.Dispatch("POST /rest/post/delete", func(r *route.Request) { // {{{
		var in struct {
			Board    string   `json:"board"`
			Posts    []string `json:"posts"`
			Password string   `json:"password"`
			OnlyFile bool     `json:"onlyfile"`
		}
		if !r.Payload(&in) {
			return
		}
		if r.Missing("board", in.Board) {
			return
		}
		if !c.boards[in.Board] {
			r.Fail(route.NotFound(nil, "No such board /%s/", in.Board))
			return
		}

		numbers := make([]int64, len(in.Posts))
		for i, s := range in.Posts {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil || n <= 0 {
				r.Fail(route.Bad(err, "Invalid post number '%s'", s))
				return
			}
			numbers[i] = n
		}

		tally, err := c.deletePosts(in.Board, numbers, in.Password, in.OnlyFile)
		if err != nil {
			r.Fail(route.Oops(err, "Unable to delete posts from /%s/", in.Board))
			return
		}

		r.OK(struct {
			Result string `json:"result"`
		}{Result: tally.String()})
	})
	// }}}
	r.Dispatch("POST /rest/post/new", func(r *route.Request) { // {{{
		var in struct {
			Board      string         `json:"board"`
			Thread     int64          `json:"thread"`
			Markup     string         `json:"markup"`
			Password   string         `json:"password"`
			Attachment *apiAttachment `json:"attachment"`
		}
		if !r.Payload(&in) {
			return
		}
		if r.Missing("board", in.Board) {
			return
		}
		if in.Attachment == nil && r.Missing("markup", in.Markup) {
			return
		}
		if !c.boards[in.Board] {
			r.Fail(route.NotFound(nil, "No such board /%s/", in.Board))
			return
		}
		if in.Thread < 0 {
			r.Fail(route.Bad(nil, "Invalid thread number '%d'", in.Thread))
			return
		}
		if in.Attachment != nil && len(in.Attachment.Data) > c.Config.MaxFileSize {
			r.Fail(route.Errorf(413, nil, "Attachment is too large (limit is %d bytes)", c.Config.MaxFileSize))
			return
		}

		post, err := c.createPost(in.Board, in.Thread, in.Markup, in.Password, in.Attachment)
		if err != nil {
			if db.IsNotFound(err) {
				r.Fail(route.NotFound(err, "No such thread /%s/%d", in.Board, in.Thread))
				return
			}
			r.Fail(route.Oops(err, "Unable to create post on /%s/", in.Board))
			return
		}

		r.OK(post)
	})
	// }}}
	r.Dispatch("GET /rest/board/:board/posts", func(r *route.Request) { // {{{
		if !c.boards[r.Args[0]] {
			r.Fail(route.NotFound(nil, "No such board /%s/", r.Args[0]))
			return
		}

		filter := &db.PostFilter{}
		r.Query(filter)
		filter.Board = r.Args[0]
		if filter.Limit < 0 || filter.Thread < 0 {
			r.Fail(route.Bad(nil, "Invalid thread or limit"))
			return
		}

		posts, err := c.db.GetAllPosts(filter)
		if err != nil {
			r.Fail(route.Oops(err, "Unable to retrieve posts from /%s/", filter.Board))
			return
		}

		r.OK(posts)
	})
	// }}}
	r.Dispatch("GET /rest/events", func(r *route.Request) { // {{{
		queues := make([]string, 0)
		if b := r.Param("board", ""); b != "" {
			if !c.boards[b] {
				r.Fail(route.NotFound(nil, "No such board /%s/", b))
				return
			}
			queues = append(queues, bus.BoardQueue(b))
		} else {
			queues = append(queues, bus.Everyone)
		}

		socket := r.Upgrade()
		if socket == nil {
			return
		}

		log.Infof("registering message bus web client for %v", queues)
		ch, slot, err := c.bus.Register(queues)
		if err != nil {
			log.Errorf("failed to register message bus web client: %s", err)
			socket.SendClose()
			return
		}
		go socket.Discard(func() {
			c.bus.Unregister(slot)
		})

		for event := range ch {
			b, err := json.Marshal(event)
			if err != nil {
				log.Errorf("message bus web client [%d] failed to marshal JSON for websocket relay: %s", slot, err)
				continue
			}
			if done, err := socket.Write(b); done {
				log.Infof("message bus web client [%d] closed their end of the socket", slot)
				c.bus.Unregister(slot)
				break
			} else if err != nil {
				log.Errorf("message bus web client [%d] failed to write message: %s", slot, err)
			}
		}
		log.Infof("message bus web client [%d] disconnected; unregistering...", slot)
		socket.SendClose()
	})
	// }}}

	return r
}
