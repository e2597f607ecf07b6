package finetune_test

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	bfl "github.com/mutablelogic/go-bfl"
	schema "github.com/mutablelogic/go-bfl/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
	assert "github.com/stretchr/testify/assert"
)

// writeArchive writes a stand-in training archive and returns its path
func writeArchive(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finetuning.zip")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

///////////////////////////////////////////////////////////////////////////////
// TESTS: RequestFinetune

func Test_finetune_001(t *testing.T) {
	// The decoded submission response is returned as-is
	assert := assert.New(t)
	srv := newServer(t, http.StatusOK, `{"id":"abc123","status":"Pending"}`)
	c := newClient(t, srv.URL)

	archive := []byte("PK\x03\x04 not really a zip")
	job, err := c.RequestFinetune(t.Context(), writeArchive(t, archive), schema.FinetuneRequest{Comment: "myfirstfinetune"})
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal(&schema.Job{ID: "abc123", Status: schema.StatusPending}, job)

	// The request body has the defaults and the encoded archive
	req := srv.Last(t)
	assert.Equal(http.MethodPost, req.Method)
	assert.Equal("/v1/finetune", req.Path)
	assert.Equal(testKey, req.Header.Get("X-Key"))
	assert.Equal("myfirstfinetune", req.Body["finetune_comment"])
	assert.Equal("TOK", req.Body["trigger_word"])
	assert.Equal("style", req.Body["mode"])
	assert.Equal(float64(500), req.Body["iterations"])
	assert.Equal(0.00001, req.Body["learning_rate"])
	assert.Equal(true, req.Body["captioning"])
	assert.Equal("quality", req.Body["priority"])
	assert.Equal("full", req.Body["finetune_type"])
	assert.Equal(float64(32), req.Body["lora_rank"])
	assert.Equal(base64.StdEncoding.EncodeToString(archive), req.Body["file_data"])
}

func Test_finetune_002(t *testing.T) {
	// Explicit values replace the defaults
	assert := assert.New(t)
	srv := newServer(t, http.StatusOK, `{"id":"abc123","status":"Pending"}`)
	c := newClient(t, srv.URL)

	_, err := c.RequestFinetune(t.Context(), writeArchive(t, []byte("zip")), schema.FinetuneRequest{
		Comment:      "product shots",
		TriggerWord:  "ZXC",
		Mode:         schema.ModeProduct,
		Iterations:   300,
		Captioning:   types.Ptr(false),
		Priority:     schema.PrioritySpeed,
		FinetuneType: schema.FinetuneLora,
		LoraRank:     16,
	})
	assert.NoError(err)

	req := srv.Last(t)
	assert.Equal("ZXC", req.Body["trigger_word"])
	assert.Equal("product", req.Body["mode"])
	assert.Equal(float64(300), req.Body["iterations"])
	assert.Equal(false, req.Body["captioning"])
	assert.Equal("speed", req.Body["priority"])
	assert.Equal("lora", req.Body["finetune_type"])
	assert.Equal(float64(16), req.Body["lora_rank"])
}

func Test_finetune_003(t *testing.T) {
	// A missing archive fails before any call
	assert := assert.New(t)
	srv := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv.URL)

	job, err := c.RequestFinetune(t.Context(), filepath.Join(t.TempDir(), "missing.zip"), schema.FinetuneRequest{Comment: "c"})
	assert.Nil(job)
	assert.ErrorIs(err, bfl.ErrInputNotFound)
	assert.Contains(err.Error(), "missing.zip")
	assert.Empty(srv.Requests())
}

func Test_finetune_004(t *testing.T) {
	// An unknown caption mode fails before any call
	assert := assert.New(t)
	srv := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv.URL)

	job, err := c.RequestFinetune(t.Context(), writeArchive(t, []byte("zip")), schema.FinetuneRequest{Comment: "c", Mode: "portrait"})
	assert.Nil(job)
	assert.ErrorIs(err, bfl.ErrInvalidArgument)
	assert.Empty(srv.Requests())
}

func Test_finetune_005(t *testing.T) {
	// A rejected submission carries the status and the body text
	assert := assert.New(t)
	srv := newServer(t, http.StatusBadRequest, `{"error":"bad request"}`)
	c := newClient(t, srv.URL)

	_, err := c.RequestFinetune(t.Context(), writeArchive(t, []byte("zip")), schema.FinetuneRequest{Comment: "c"})
	assert.ErrorIs(err, bfl.ErrUpstreamRequest)
	assert.Contains(err.Error(), "finetune request")
	assert.Contains(err.Error(), "bad request")

	var httpErr httpresponse.Err
	if assert.True(errors.As(err, &httpErr)) {
		assert.Equal(http.StatusBadRequest, int(httpErr))
	}
}

///////////////////////////////////////////////////////////////////////////////
// TESTS: Progress, list, details, delete

func Test_progress_001(t *testing.T) {
	assert := assert.New(t)
	srv := newServer(t, http.StatusOK, `{"id":"abc123","status":"Pending","result":null,"progress":null}`)
	c := newClient(t, srv.URL)

	result, err := c.FinetuneProgress(t.Context(), "abc123")
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal(&schema.Result{ID: "abc123", Status: schema.StatusPending}, result)

	req := srv.Last(t)
	assert.Equal(http.MethodGet, req.Method)
	assert.Equal("/v1/get_result", req.Path)
	assert.Equal([]string{"abc123"}, req.Query["id"])
}

func Test_progress_002(t *testing.T) {
	assert := assert.New(t)
	srv := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv.URL)

	_, err := c.FinetuneProgress(t.Context(), "")
	assert.ErrorIs(err, bfl.ErrInvalidArgument)
	_, err = c.FinetuneDetails(t.Context(), "")
	assert.ErrorIs(err, bfl.ErrInvalidArgument)
	_, err = c.DeleteFinetune(t.Context(), "")
	assert.ErrorIs(err, bfl.ErrInvalidArgument)
	assert.Empty(srv.Requests())
}

func Test_list_001(t *testing.T) {
	assert := assert.New(t)
	srv := newServer(t, http.StatusOK, `{"finetunes":["ft-1","ft-2"]}`)
	c := newClient(t, srv.URL)

	list, err := c.ListFinetunes(t.Context())
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal([]string{"ft-1", "ft-2"}, list.Finetunes)

	req := srv.Last(t)
	assert.Equal(http.MethodGet, req.Method)
	assert.Equal("/v1/my_finetunes", req.Path)
	assert.Empty(req.Query)
}

func Test_details_001(t *testing.T) {
	assert := assert.New(t)
	srv := newServer(t, http.StatusOK, `{"finetune_details":{"trigger_word":"TOK","mode":"style","iterations":500}}`)
	c := newClient(t, srv.URL)

	details, err := c.FinetuneDetails(t.Context(), "ft-1")
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal(map[string]any{"trigger_word": "TOK", "mode": "style", "iterations": float64(500)}, details.Details)

	req := srv.Last(t)
	assert.Equal(http.MethodGet, req.Method)
	assert.Equal("/v1/finetune_details", req.Path)
	assert.Equal([]string{"ft-1"}, req.Query["finetune_id"])
}

func Test_delete_001(t *testing.T) {
	assert := assert.New(t)
	srv := newServer(t, http.StatusOK, `{"success":true,"message":"Finetune deleted"}`)
	c := newClient(t, srv.URL)

	confirmation, err := c.DeleteFinetune(t.Context(), "ft-1")
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal(schema.Confirmation{"success": true, "message": "Finetune deleted"}, confirmation)

	req := srv.Last(t)
	assert.Equal(http.MethodPost, req.Method)
	assert.Equal("/v1/delete_finetune", req.Path)
	assert.Equal(map[string]any{"finetune_id": "ft-1"}, req.Body)
}

///////////////////////////////////////////////////////////////////////////////
// TESTS: Timeout

func Test_timeout_001(t *testing.T) {
	// A configured timeout bounds the call
	assert := assert.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, client.OptTimeout(100*time.Millisecond))
	_, err := c.ListFinetunes(t.Context())
	assert.ErrorIs(err, bfl.ErrUpstreamRequest)
}
