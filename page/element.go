package page

import (
	"sync"
)

// SelectRole marks the checkboxes that pick posts for deletion.
const SelectRole = "post_select"

type TextArea struct {
	Name string

	lock  sync.Mutex
	value string
}

func NewTextArea(name, value string) *TextArea {
	return &TextArea{Name: name, value: value}
}

func (t *TextArea) Value() string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.value
}

func (t *TextArea) SetValue(v string) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.value = v
}

// Input is a single-line field, such as the deletion password.
type Input struct {
	TextArea
}

func NewInput(name, value string) *Input {
	return &Input{TextArea{Name: name, value: value}}
}

// Checkbox separates the static value attribute (Value) from the live
// checked state, which is what a form submission must read.
type Checkbox struct {
	Name  string
	Role  string
	Value string

	lock    sync.Mutex
	checked bool
}

func NewCheckbox(name, role, value string) *Checkbox {
	return &Checkbox{Name: name, Role: role, Value: value}
}

func (c *Checkbox) Checked() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.checked
}

func (c *Checkbox) SetChecked(yes bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.checked = yes
}

func (c *Checkbox) Toggle() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.checked = !c.checked
}

// Element is anything an action can reveal and fill in.
type Element interface {
	Show()
	SetHTML(string)
	SetText(string)
}

// Region is an in-memory Element.  Completions arrive on the gateway's
// goroutine, so all access is locked.
type Region struct {
	ID string

	lock    sync.Mutex
	visible bool
	content string
	html    bool
}

func NewRegion(id string) *Region {
	return &Region{ID: id}
}

func (r *Region) Show() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.visible = true
}

func (r *Region) Hide() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.visible = false
}

func (r *Region) SetHTML(s string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.content = s
	r.html = true
}

func (r *Region) SetText(s string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.content = s
	r.html = false
}

func (r *Region) Visible() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.visible
}

func (r *Region) Content() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.content
}

func (r *Region) IsHTML() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.html
}

// Popup is the preview container together with its inner content element.
type Popup struct {
	Container Element
	Content   Element
}
