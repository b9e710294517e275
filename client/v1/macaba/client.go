package macaba

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jhunt/go-log"
)

type Client struct {
	URL   string
	Debug bool
	Trace bool

	InsecureSkipVerify bool
	TrustSystemCAs     bool
	CACertificate      string

	Timeout int
	Session string

	ua      *http.Client
	once    sync.Once
	initErr error
	lock    sync.Mutex
}

// SessionHeader carries the session the server hands out; it is sent back
// on every later request.
const SessionHeader = "X-Macaba-Session"

// initialize runs once per Client, however many requests are in flight.
func (c *Client) initialize() error {
	c.once.Do(func() { c.initErr = c.setup() })
	return c.initErr
}

func (c *Client) setup() error {
	/* drop trailing slashes */
	for strings.HasSuffix(c.URL, "/") {
		c.URL = strings.TrimSuffix(c.URL, "/")
	}

	/* set a default timeout */
	if c.Timeout == 0 {
		c.Timeout = 45
	}

	if c.ua == nil {
		var pool *x509.CertPool

		if c.TrustSystemCAs {
			pool, _ = x509.SystemCertPool()
		}
		if pool == nil {
			pool = x509.NewCertPool()
		}

		if c.CACertificate != "" && !pool.AppendCertsFromPEM([]byte(c.CACertificate)) {
			return fmt.Errorf("Unable to parse CA Certificate for inclusion in trusted CA pool")
		}

		c.ua = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: c.InsecureSkipVerify,
					RootCAs:            pool,
				},
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
			Timeout: time.Duration(c.Timeout) * time.Second,
		}
	}

	return nil
}

func (c *Client) session() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.Session
}

func (c *Client) setSession(session string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.Session = session
}

func (c *Client) Debugf(m string, args ...interface{}) {
	if c.Debug {
		log.Debugf(m, args...)
	}
}

func (c *Client) curl(req *http.Request) (*http.Response, error) {
	err := c.initialize()
	if err != nil {
		return nil, err
	}

	if session := c.session(); session != "" {
		req.Header.Set(SessionHeader, session)
	}

	if req.URL.Scheme == "" {
		req.URL, err = url.Parse(c.URL + req.URL.String())
		if err != nil {
			return nil, err
		}
	}

	if c.Trace {
		r, _ := httputil.DumpRequest(req, true)
		fmt.Fprintf(os.Stderr, "Request:\n%s\n---------------------------\n", r)
	}

	res, err := c.ua.Do(req)
	if err != nil {
		return nil, err
	}

	if c.Trace {
		r, _ := httputil.DumpResponse(res, true)
		fmt.Fprintf(os.Stderr, "Response:\n%s\n---------------------------\n", r)
	}

	return res, nil
}

// request performs one round-trip.  Every way it can go wrong comes back
// as a *Failure, so callers only ever see one error taxonomy.
func (c *Client) request(req *http.Request, out interface{}) error {
	res, err := c.curl(req)
	if err != nil {
		return transportFailure(err)
	}
	defer res.Body.Close()

	b, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return transportFailure(err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.Debugf("%s %s returned HTTP %d", req.Method, req.URL.Path, res.StatusCode)
		return statusFailure(res.StatusCode, b)
	}

	if session := res.Header.Get(SessionHeader); session != "" {
		c.setSession(session)
	}

	if res.StatusCode == 204 || out == nil {
		return nil
	}

	if err := json.Unmarshal(b, out); err != nil {
		c.Debugf("%s %s returned unparseable JSON: %s", req.Method, req.URL.Path, err)
		return parseFailure(res.StatusCode, err)
	}
	return nil
}

func (c *Client) get(path string, out interface{}) error {
	req, err := http.NewRequest("GET", path, nil)
	if err != nil {
		return transportFailure(err)
	}
	req.Header.Set("Accept", "application/json")
	return c.request(req, out)
}

func (c *Client) post(path string, in, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return transportFailure(err)
	}
	req, err := http.NewRequest("POST", path, bytes.NewBuffer(b))
	if err != nil {
		return transportFailure(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return c.request(req, out)
}
