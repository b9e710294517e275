package tui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type FieldProcessor func(name string, value string) (interface{}, error)

type Form struct {
	Fields []*Field

	in  *bufio.Reader
	out io.Writer
}

type Field struct {
	Label     string
	Name      string
	ShowAs    string
	Value     interface{}
	Processor FieldProcessor
}

// NewForm returns a Form that prompts on standard output and reads answers
// from standard input.
func NewForm() *Form {
	return NewFormFrom(os.Stdin, os.Stdout)
}

func NewFormFrom(in io.Reader, out io.Writer) *Form {
	return &Form{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (f *Form) NewField(label string, name string, value interface{}, showas string, fn FieldProcessor) *Field {
	field := &Field{
		Label:     label,
		Name:      name,
		ShowAs:    showas,
		Value:     value,
		Processor: fn,
	}
	f.Fields = append(f.Fields, field)
	return field
}

func (f *Form) GetField(name string) *Field {
	for _, field := range f.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

func (field *Field) PromptString() string {
	if field.ShowAs != "" {
		return fmt.Sprintf("%s (%s)", field.Label, field.ShowAs)
	}
	if field.Value != nil {
		if s, ok := field.Value.(string); !ok || s != "" {
			return fmt.Sprintf("%s (%v)", field.Label, field.Value)
		}
	}
	return field.Label
}

func (f *Form) prompt(field *Field) error {
	for {
		fmt.Fprintf(f.out, "%s: ", field.PromptString())
		v, err := f.in.ReadString('\n')
		if err != nil && (err != io.EOF || v == "") {
			return err
		}

		v = field.OrDefault(strings.TrimSpace(v))
		final, err := field.Processor(field.Name, v)
		if err != nil {
			fmt.Fprintf(f.out, "!! %s\n", err)
			continue
		}

		field.Value = final
		return nil
	}
}

func (field *Field) OrDefault(v string) string {
	if v == "" && field.Value != nil {
		return fmt.Sprintf("%v", field.Value)
	}
	return v
}

// Show prompts for each field in turn, re-asking until the field's
// processor accepts the answer.
func (f *Form) Show() error {
	for _, field := range f.Fields {
		if err := f.prompt(field); err != nil {
			return fmt.Errorf("%s: %s", field.Label, err)
		}
	}
	return nil
}

func (f *Form) Confirm(prompt string) bool {
	r := NewReport()
	for _, field := range f.Fields {
		if field.ShowAs != "" {
			r.Add(field.Label, field.ShowAs)
		} else {
			r.Add(field.Label, fmt.Sprintf("%v", field.Value))
		}
	}

	fmt.Fprintf(f.out, "\n\n")
	r.Output(f.out)
	fmt.Fprintf(f.out, "\n\n")

	return confirm(f.in, f.out, prompt)
}

func FieldIsRequired(name string, value string) (interface{}, error) {
	if len(value) < 1 {
		return value, fmt.Errorf("Field %s is a required field.", name)
	}
	return value, nil
}

func FieldIsOptional(name string, value string) (interface{}, error) {
	return value, nil
}

func FieldIsBoolean(name string, value string) (interface{}, error) {
	switch strings.ToLower(value) {
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	}

	return false, fmt.Errorf("'%s' is not a boolean value.  Acceptable values are (y)es or (n)o.", value)
}

// FieldIsPostList accepts one or more positive post numbers, separated by
// spaces or commas.
func FieldIsPostList(name string, value string) (interface{}, error) {
	l := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(l) == 0 {
		return nil, fmt.Errorf("Field %s is a required field.", name)
	}

	for _, s := range l {
		s = strings.TrimPrefix(s, ">>")
		if n, err := strconv.ParseInt(s, 10, 64); err != nil || n <= 0 {
			return nil, fmt.Errorf("'%s' is not a post number.", s)
		}
	}
	for i := range l {
		l[i] = strings.TrimPrefix(l[i], ">>")
	}
	return l, nil
}
