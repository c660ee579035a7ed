// package callback runs the loopback server that receives the OAuth2
// authorization redirect during login.
package callback

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
)

// Result is the outcome of one authorization redirect. Code and State are
// handed back to the caller for the token exchange; the exchange itself,
// including state validation, happens there.
type Result struct {
	Code  string
	State string
	err   error
}

func (r Result) Error() error {
	return r.err
}

// Server captures a single authorization redirect on the /callback route.
type Server struct {
	srv        *http.Server
	listener   net.Listener
	resultChan chan Result

	once        sync.Once
	mu          sync.Mutex
	callbackHit bool
}

// New creates a callback server bound to the given host and port. Port 0
// picks a free port; see [Server.Addr].
func New(host string, port int) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("failed to bind callback server: %w", err)
	}

	s := &Server{
		listener:   listener,
		resultChan: make(chan Result, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)
	s.srv = &http.Server{Handler: mux}

	return s, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start serves until [Server.Shutdown] is called. It always returns a
// non-nil error; after a clean shutdown that error is [http.ErrServerClosed].
func (s *Server) Start() error {
	return s.srv.Serve(s.listener)
}

// Result returns the channel on which the captured redirect is delivered.
// The channel receives exactly one result and is then closed.
func (s *Server) Result() <-chan Result {
	return s.resultChan
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.callbackHit {
		s.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	s.callbackHit = true
	s.mu.Unlock()

	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		err := fmt.Errorf("authorization failed: %s - %s", errParam, q.Get("error_description"))
		s.send(Result{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	code := q.Get("code")
	if code == "" {
		err := fmt.Errorf("authorization redirect carried no code")
		s.send(Result{err: err})
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	s.send(Result{Code: code, State: q.Get("state")})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// send delivers the result through the channel (only once).
func (s *Server) send(result Result) {
	s.once.Do(func() {
		s.resultChan <- result
		close(s.resultChan)
	})
}

const successPage = `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
