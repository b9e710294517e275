package page

import (
	"github.com/jhunt/go-log"

	"github.com/macaba/mcweb/client/v1/macaba"
)

// Gateway issues one asynchronous REST call; *macaba.Client satisfies it.
type Gateway interface {
	Go(path string, in, out interface{}, k macaba.Continuation) <-chan struct{}
}

// Failer is an Element that takes the failure itself instead of its
// rendered form.  Content alone cannot tell a failure from a post that
// happens to read like one.
type Failer interface {
	Fail(*macaba.Failure)
}

func showFailure(el Element, f *macaba.Failure) {
	if fl, ok := el.(Failer); ok {
		fl.Fail(f)
		return
	}
	el.SetHTML(f.Render())
}

type PreviewForm struct {
	Message *TextArea
}

type DeleteForm struct {
	Selections []*Checkbox
	Password   *Input
	FileOnly   *Checkbox
}

// Selected returns the values of the checked post selectors, in the order
// they appear in the form.
func (f *DeleteForm) Selected() []string {
	l := make([]string, 0)
	for _, box := range f.Selections {
		if box == nil || box.Role != SelectRole {
			continue
		}
		if box.Checked() {
			l = append(l, box.Value)
		}
	}
	return l
}

// Preview sends the current message markup to the server and renders the
// returned HTML, unsanitized, into the popup.
func Preview(gw Gateway, form *PreviewForm, popup *Popup) <-chan struct{} {
	in := macaba.PreviewRequest{Markup: form.Message.Value()}
	out := &macaba.Preview{}

	return gw.Go(macaba.PreviewPath, in, out, macaba.Continuation{
		Success: func() {
			popup.Container.Show()
			popup.Content.SetHTML(out.HTML)
		},
		Failure: func(f *macaba.Failure) {
			log.Debugf("preview failed: %s", f)
			popup.Container.Show()
			showFailure(popup.Content, f)
		},
	})
}

// Delete asks the server to remove the checked posts from board.  The post
// argument names the post whose control triggered the action; the request
// is built from the checked selections alone.
func Delete(gw Gateway, board, post string, form *DeleteForm, bar Element) <-chan struct{} {
	in := macaba.DeleteRequest{
		Board:    board,
		Posts:    form.Selected(),
		OnlyFile: form.FileOnly != nil && form.FileOnly.Checked(),
	}
	if form.Password != nil {
		in.Password = form.Password.Value()
	}
	out := &macaba.DeleteResult{}

	log.Debugf("deleting %v from /%s/ (triggered from post %s)", in.Posts, board, post)
	return gw.Go(macaba.DeletePath, in, out, macaba.Continuation{
		Success: func() {
			bar.Show()
			bar.SetHTML("Result: " + out.Result)
		},
		Failure: func(f *macaba.Failure) {
			log.Debugf("delete failed: %s", f)
			bar.Show()
			showFailure(bar, f)
		},
	})
}
