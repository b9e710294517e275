package route

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`:[a-z_]+`)

// pattern is a compiled "METHOD /path/:arg" route.  Each :arg segment
// matches one path component, which is handed to the handler (in order)
// as Request.Args.  A method of "*" matches any method, and a "*" in the
// path matches the rest of it.
type pattern struct {
	method string
	path   *regexp.Regexp
}

func compile(s string) pattern {
	parts := strings.SplitN(s, " ", 2)
	if len(parts) != 2 {
		panic(fmt.Sprintf("invalid route pattern '%s'", s))
	}

	path := regexp.QuoteMeta(parts[1])
	path = strings.Replace(path, `\*`, `.*`, -1)
	return pattern{
		method: parts[0],
		path:   regexp.MustCompile("^" + placeholder.ReplaceAllString(path, `([^/]+)`) + "$"),
	}
}

// args returns the placeholder values from req's path, or nil if the path
// does not match at all.  The method is not considered.
func (p pattern) args(req *http.Request) []string {
	m := p.path.FindStringSubmatch(req.URL.Path)
	if m == nil {
		return nil
	}
	return m[1:]
}

func (p pattern) allows(method string) bool {
	return p.method == "*" || p.method == method
}
