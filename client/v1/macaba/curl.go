package macaba

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
)

func (c *Client) Curl(method, path, body string) (int, string, error) {
	var req *http.Request
	var err error

	switch method {
	case "GET", "DELETE":
		req, err = http.NewRequest(method, path, nil)
		if err != nil {
			return 0, "", err
		}
		req.Header.Set("Accept", "application/json")

	case "POST", "PUT", "PATCH":
		req, err = http.NewRequest(method, path, bytes.NewBufferString(body))
		if err != nil {
			return 0, "", err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")

	default:
		return 0, "", fmt.Errorf("unsupported HTTP method '%s'", method)
	}

	res, err := c.curl(req)
	if err != nil {
		return 0, "", err
	}
	defer res.Body.Close()

	b, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, "", err
	}

	return res.StatusCode, string(b), nil
}
