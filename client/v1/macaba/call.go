package macaba

// Continuation is the handler pair run once a REST call completes.
// Exactly one of the two is invoked; either may be nil.
type Continuation struct {
	Success func()
	Failure func(*Failure)
}

// Call POSTs the JSON encoding of in to path and decodes a 2xx response
// into out.  Any error it returns is a *Failure.
func (c *Client) Call(path string, in, out interface{}) error {
	c.Debugf("POST %s", path)
	return c.post(path, in, out)
}

// Go issues the same request as Call, but on its own goroutine, and
// dispatches the outcome to k.  The returned channel is closed after the
// continuation has returned.  There is no way to cancel the request.
func (c *Client) Go(path string, in, out interface{}, k Continuation) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		err := c.Call(path, in, out)
		if err == nil {
			if k.Success != nil {
				k.Success()
			}
			return
		}

		f, ok := AsFailure(err)
		if !ok {
			f = transportFailure(err)
		}
		if k.Failure != nil {
			k.Failure(f)
		}
	}()
	return done
}
