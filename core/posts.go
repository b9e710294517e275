package core

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jhunt/go-log"
	"github.com/pborman/uuid"

	"github.com/macaba/mcweb/core/bus"
	"github.com/macaba/mcweb/db"
	"github.com/macaba/mcweb/markup"
)

type deleteTally struct {
	OnlyFile bool
	Deleted  int
	Denied   int
	Missing  int
}

func (t deleteTally) String() string {
	s := fmt.Sprintf("%d deleted", t.Deleted)
	if t.OnlyFile {
		s = fmt.Sprintf("%d files deleted", t.Deleted)
	}
	if t.Denied > 0 {
		s += fmt.Sprintf(", %d wrong password", t.Denied)
	}
	if t.Missing > 0 {
		s += fmt.Sprintf(", %d not found", t.Missing)
	}
	return s
}

// deletePosts removes each numbered post from board that password unlocks,
// or just its attachment when onlyFile is set.  Posts that do not exist
// (or, with onlyFile, have no attachment) are counted as missing.
func (c *Core) deletePosts(board string, numbers []int64, password string, onlyFile bool) (deleteTally, error) {
	tally := deleteTally{OnlyFile: onlyFile}

	for _, n := range numbers {
		if onlyFile {
			key, err := c.db.RemoveFile(board, n, password)
			if c.refused(&tally, board, n, err) {
				continue
			}
			if err != nil {
				return tally, err
			}
			c.release(key)
			c.bus.Send(bus.DeleteFileEvent, "post", map[string]interface{}{
				"board":  board,
				"number": n,
				"posts":  0,
				"files":  1,
			}, bus.BoardQueue(board))
			tally.Deleted++
			continue
		}

		gone, err := c.db.RemovePost(board, n, password)
		if c.refused(&tally, board, n, err) {
			continue
		}
		if err != nil {
			return tally, err
		}
		files := db.Files(gone)
		for _, key := range files {
			c.release(key)
		}
		c.bus.Send(bus.DeletePostEvent, "post", map[string]interface{}{
			"board":  board,
			"number": n,
			"posts":  len(gone),
			"files":  len(files),
		}, bus.BoardQueue(board))
		tally.Deleted++
	}

	c.metrics.Deleted("deleted", tally.Deleted)
	c.metrics.Deleted("wrong_password", tally.Denied)
	c.metrics.Deleted("not_found", tally.Missing)
	return tally, nil
}

// refused tallies the removals the database turned down.
func (c *Core) refused(tally *deleteTally, board string, n int64, err error) bool {
	switch {
	case db.IsNotFound(err):
		log.Debugf("delete: /%s/%d not found", board, n)
		tally.Missing++
		return true
	case db.IsDenied(err):
		log.Infof("delete: refusing to delete /%s/%d; wrong password", board, n)
		tally.Denied++
		return true
	}
	return false
}

// release removes an attachment from storage.  The post no longer refers
// to it, so failures are only logged.
func (c *Core) release(key string) {
	if err := c.store.Delete(key); err != nil {
		log.Errorf("failed to remove attachment '%s' from storage: %s", key, err)
	}
}

var reExtension = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

func attachmentKey(board, name string) string {
	key := board + "/" + uuid.NewRandom().String()
	if ext := strings.ToLower(filepath.Ext(name)); reExtension.MatchString(ext) {
		key += ext
	}
	return key
}

func (c *Core) createPost(board string, thread int64, text, password string, file *apiAttachment) (*db.Post, error) {
	html, err := markup.Render(c.Config.Markup, text)
	if err != nil {
		return nil, err
	}

	post := &db.Post{
		Board:  board,
		Thread: thread,
		Markup: text,
		HTML:   html,
	}
	if err := post.SetPassword(password, c.Config.BcryptCost); err != nil {
		return nil, err
	}

	if file != nil {
		post.File = attachmentKey(board, file.Name)
		log.Debugf("storing %d byte attachment '%s' as '%s'", len(file.Data), file.Name, post.File)
		if err := c.store.Put(post.File, file.Data); err != nil {
			return nil, err
		}
	}

	key := post.File
	post, err = c.db.CreatePost(post)
	if err != nil {
		if key != "" {
			c.release(key)
		}
		return nil, err
	}

	c.bus.Send(bus.CreatePostEvent, "post", post, bus.BoardQueue(board))
	return post, nil
}
