package finetune_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	bfl "github.com/mutablelogic/go-bfl"
	finetune "github.com/mutablelogic/go-bfl/pkg/finetune"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

const (
	testKey = "test-api-key"
)

// request is a request as seen by the test server
type request struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   map[string]any
}

// server is a fake API which replies with a fixed status and body, and
// records every request it receives
type server struct {
	*httptest.Server
	sync.Mutex
	status   int
	body     string
	requests []request
}

func newServer(t *testing.T, status int, body string) *server {
	t.Helper()
	s := &server{status: status, body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		}
		if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
			if err := json.Unmarshal(data, &req.Body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		s.Lock()
		s.requests = append(s.requests, req)
		s.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		io.WriteString(w, s.body)
	}))
	t.Cleanup(s.Close)
	return s
}

// Requests returns the requests received so far
func (s *server) Requests() []request {
	s.Lock()
	defer s.Unlock()
	return append([]request(nil), s.requests...)
}

// Last returns the most recent request
func (s *server) Last(t *testing.T) request {
	t.Helper()
	requests := s.Requests()
	if len(requests) == 0 {
		t.Fatal("no requests received")
	}
	return requests[len(requests)-1]
}

func newClient(t *testing.T, url string, opts ...client.ClientOpt) *finetune.Client {
	t.Helper()
	c, err := finetune.New(testKey, append([]client.ClientOpt{client.OptEndpoint(url + "/v1")}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_client_001(t *testing.T) {
	// An empty API key is rejected
	assert := assert.New(t)
	c, err := finetune.New("")
	assert.ErrorIs(err, bfl.ErrMissingCredential)
	assert.Nil(c)
}

func Test_client_002(t *testing.T) {
	// A client with an API key is created without any network call
	assert := assert.New(t)
	c, err := finetune.New(testKey)
	assert.NoError(err)
	assert.NotNil(c)
}

func Test_client_003(t *testing.T) {
	// Every call carries the credential and a request id
	assert := assert.New(t)
	srv := newServer(t, http.StatusOK, `{"finetunes":[]}`)
	c := newClient(t, srv.URL)

	_, err := c.ListFinetunes(t.Context())
	assert.NoError(err)
	_, err = c.ListFinetunes(t.Context())
	assert.NoError(err)

	requests := srv.Requests()
	if assert.Len(requests, 2) {
		assert.Equal(testKey, requests[0].Header.Get("X-Key"))
		assert.NotEmpty(requests[0].Header.Get("X-Request-Id"))
		assert.NotEqual(requests[0].Header.Get("X-Request-Id"), requests[1].Header.Get("X-Request-Id"))
		assert.Contains(requests[0].Header.Get("User-Agent"), "go-bfl/")
	}
}

func Test_client_004(t *testing.T) {
	// A non-2xx status is an upstream error carrying the status and body
	assert := assert.New(t)
	srv := newServer(t, http.StatusBadRequest, `{"error":"bad request"}`)
	c := newClient(t, srv.URL)

	result, err := c.FinetuneProgress(t.Context(), "abc123")
	assert.Nil(result)
	assert.ErrorIs(err, bfl.ErrUpstreamRequest)
	assert.Contains(err.Error(), "finetune progress")
	assert.Contains(err.Error(), "bad request")
}

func Test_client_005(t *testing.T) {
	// A transport failure is the same upstream error
	assert := assert.New(t)
	srv := newServer(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	c := newClient(t, url)
	_, err := c.ListFinetunes(t.Context())
	assert.ErrorIs(err, bfl.ErrUpstreamRequest)
	assert.Contains(err.Error(), "finetune listing")
}

func Test_client_006(t *testing.T) {
	// Calls are unbounded unless a timeout is set
	assert := assert.New(t)
	c, err := finetune.New(testKey)
	if assert.NoError(err) {
		assert.Zero(c.Client.Client.Timeout)
	}

	c, err = finetune.New(testKey, client.OptTimeout(5*time.Second))
	if assert.NoError(err) {
		assert.Equal(5*time.Second, c.Client.Client.Timeout)
	}
}
