package db

import (
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 10

type Post struct {
	Board   string `db:"board"   json:"board"`
	Number  int64  `db:"number"  json:"number"`
	Thread  int64  `db:"thread"  json:"thread"`
	Markup  string `db:"markup"  json:"markup"`
	HTML    string `db:"html"    json:"html"`
	File    string `db:"file"    json:"file,omitempty"`
	Created int64  `db:"created" json:"created"`

	PWHash string `db:"pwhash" json:"-"`
}

// IsThread is true for the opening post of a thread.
func (p *Post) IsThread() bool {
	return p.Thread == 0
}

func (p *Post) Authenticate(password string) bool {
	/* always do this first, to avoid timing attacks */
	err := bcrypt.CompareHashAndPassword([]byte(p.PWHash), []byte(password))
	return p.PWHash != "" && password != "" && err == nil
}

func (p *Post) SetPassword(password string, cost int) error {
	if password == "" {
		p.PWHash = ""
		return nil
	}
	if cost == 0 {
		cost = DefaultBcryptCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	p.PWHash = string(hash)
	return nil
}

type PostFilter struct {
	Board  string
	Thread int64 `qs:"thread"`
	Limit  int   `qs:"limit"`
}

func (f *PostFilter) Query() (string, []interface{}) {
	args := []interface{}{f.Board}
	where := `WHERE board = ?`
	if f.Thread > 0 {
		where += ` AND (number = ? OR thread = ?)`
		args = append(args, f.Thread, f.Thread)
	}

	limit := ``
	if f.Limit > 0 {
		limit = ` LIMIT ?`
		args = append(args, f.Limit)
	}

	return `
	  SELECT board, number, thread, markup, html, pwhash, file, created
	    FROM posts ` + where + `
	ORDER BY number ASC` + limit, args
}

func (db *DB) GetAllPosts(filter *PostFilter) ([]*Post, error) {
	if filter == nil {
		filter = &PostFilter{}
	}

	l := []*Post{}
	query, args := filter.Query()
	if err := db.Select(&l, query, args...); err != nil {
		return nil, err
	}
	return l, nil
}

func (db *DB) GetPost(board string, number int64) (*Post, error) {
	p := &Post{}
	err := db.Get(p, `
	  SELECT board, number, thread, markup, html, pwhash, file, created
	    FROM posts WHERE board = ? AND number = ?`, board, number)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePost assigns the next number on the board to p and stores it.
// Replies must name an existing thread on the same board.
func (db *DB) CreatePost(p *Post) (*Post, error) {
	db.exclusive.Lock()
	defer db.exclusive.Unlock()

	if p.Thread != 0 {
		op, err := db.GetPost(p.Board, p.Thread)
		if err != nil {
			return nil, err
		}
		if op == nil || !op.IsThread() {
			return nil, NewErrNotFound("thread /%s/%d not found", p.Board, p.Thread)
		}
	}

	var next struct {
		N int64 `db:"n"`
	}
	err := db.Get(&next, `SELECT COALESCE(MAX(number), 0) + 1 AS n FROM posts WHERE board = ?`, p.Board)
	if err != nil {
		return nil, err
	}

	p.Number = next.N
	if p.Created == 0 {
		p.Created = time.Now().Unix()
	}

	err = db.Exec(`
	  INSERT INTO posts (board, number, thread, markup, html, pwhash, file, created)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Board, p.Number, p.Thread, p.Markup, p.HTML, p.PWHash, p.File, p.Created)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// DeletePost removes a post; removing the opening post of a thread also
// removes every reply.  All of the removed posts are returned, so that the
// caller can release their attachments.
func (db *DB) DeletePost(p *Post) ([]*Post, error) {
	db.exclusive.Lock()
	defer db.exclusive.Unlock()
	return db.deletePost(p)
}

// RemovePost looks up a post, checks password against it and deletes it
// (see DeletePost), all while holding the write lock.  Concurrent removals
// of the same post see it exactly once; the rest get ErrNotFound.
func (db *DB) RemovePost(board string, number int64, password string) ([]*Post, error) {
	db.exclusive.Lock()
	defer db.exclusive.Unlock()

	p, err := db.unlock(board, number, password)
	if err != nil {
		return nil, err
	}
	return db.deletePost(p)
}

func (db *DB) deletePost(p *Post) ([]*Post, error) {
	var victims []*Post
	query := `SELECT board, number, thread, markup, html, pwhash, file, created
	            FROM posts WHERE board = ? AND number = ?`
	args := []interface{}{p.Board, p.Number}
	if p.IsThread() {
		query += ` OR board = ? AND thread = ?`
		args = append(args, p.Board, p.Number)
	}
	if err := db.Select(&victims, query, args...); err != nil {
		return nil, err
	}

	if p.IsThread() {
		err := db.Exec(`DELETE FROM posts WHERE board = ? AND (number = ? OR thread = ?)`,
			p.Board, p.Number, p.Number)
		if err != nil {
			return nil, err
		}
	} else {
		err := db.Exec(`DELETE FROM posts WHERE board = ? AND number = ?`, p.Board, p.Number)
		if err != nil {
			return nil, err
		}
	}

	return victims, nil
}

// Files lists the attachment keys held by posts.
func Files(posts []*Post) []string {
	files := make([]string, 0)
	for _, p := range posts {
		if p.File != "" {
			files = append(files, p.File)
		}
	}
	return files
}

// ClearFile detaches the attachment from a post, keeping the post itself.
func (db *DB) ClearFile(p *Post) error {
	db.exclusive.Lock()
	defer db.exclusive.Unlock()
	return db.clearFile(p)
}

// RemoveFile is ClearFile for a post that password must unlock, checked
// under the same lock.  It returns the key of the detached attachment; a
// post without one is ErrNotFound.
func (db *DB) RemoveFile(board string, number int64, password string) (string, error) {
	db.exclusive.Lock()
	defer db.exclusive.Unlock()

	p, err := db.unlock(board, number, password)
	if err != nil {
		return "", err
	}
	if p.File == "" {
		return "", NewErrNotFound("post /%s/%d has no attachment", board, number)
	}

	key := p.File
	if err := db.clearFile(p); err != nil {
		return "", err
	}
	return key, nil
}

func (db *DB) clearFile(p *Post) error {
	if p.File == "" {
		return fmt.Errorf("post /%s/%d has no attachment", p.Board, p.Number)
	}
	err := db.Exec(`UPDATE posts SET file = '' WHERE board = ? AND number = ?`, p.Board, p.Number)
	if err != nil {
		return err
	}
	p.File = ""
	return nil
}

func (db *DB) unlock(board string, number int64, password string) (*Post, error) {
	p, err := db.GetPost(board, number)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewErrNotFound("post /%s/%d not found", board, number)
	}
	if !p.Authenticate(password) {
		return nil, NewErrDenied("wrong password for post /%s/%d", board, number)
	}
	return p, nil
}

func (db *DB) CountPosts(board string) (uint, error) {
	return db.Count(`SELECT number FROM posts WHERE board = ?`, board)
}
