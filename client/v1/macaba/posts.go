package macaba

import (
	"fmt"
	"net/url"

	qs "github.com/jhunt/go-querytron"
)

const (
	PreviewPath = "/rest/post/preview"
	DeletePath  = "/rest/post/delete"
	NewPostPath = "/rest/post/new"
)

type Preview struct {
	HTML string `json:"html"`
}

type PreviewRequest struct {
	Markup string `json:"markup"`
}

type DeleteRequest struct {
	Board    string   `json:"board"`
	Posts    []string `json:"posts"`
	Password string   `json:"password"`
	OnlyFile bool     `json:"onlyfile"`
}

type DeleteResult struct {
	Result string `json:"result"`
}

type Attachment struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

type NewPostRequest struct {
	Board      string      `json:"board"`
	Thread     int64       `json:"thread,omitempty"`
	Markup     string      `json:"markup"`
	Password   string      `json:"password"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

type Post struct {
	Board   string `json:"board"`
	Number  int64  `json:"number"`
	Thread  int64  `json:"thread"`
	Markup  string `json:"markup"`
	HTML    string `json:"html"`
	File    string `json:"file,omitempty"`
	Created int64  `json:"created"`
}

type PostFilter struct {
	Thread *int64 `qs:"thread"`
	Limit  *int   `qs:"limit"`
}

func (c *Client) Preview(markup string) (*Preview, error) {
	var out Preview
	if err := c.Call(PreviewPath, PreviewRequest{Markup: markup}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePosts(in *DeleteRequest) (*DeleteResult, error) {
	if in.Posts == nil {
		in.Posts = []string{}
	}

	var out DeleteResult
	if err := c.Call(DeletePath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) NewPost(in *NewPostRequest) (*Post, error) {
	var out Post
	if err := c.Call(NewPostPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPosts(board string, filter *PostFilter) ([]*Post, error) {
	if filter == nil {
		filter = &PostFilter{}
	}

	u := qs.Generate(filter).Encode()
	var out []*Post
	if err := c.get(fmt.Sprintf("/rest/board/%s/posts?%s", url.PathEscape(board), u), &out); err != nil {
		return nil, err
	}
	return out, nil
}
