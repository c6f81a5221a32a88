package httprpc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/fempost/transport"
	"github.com/vk/fempost/transport/httprpc"
)

func TestNew_RejectsNonHTTPSchemes(t *testing.T) {
	_, err := httprpc.New("grpc://localhost:50054")
	require.Error(t, err)

	_, err = httprpc.New("http://localhost:50054")
	require.NoError(t, err)
}

func TestClient_Run(t *testing.T) {
	var gotPath, gotRequestID string
	var gotBody map[string]json.RawMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output": {"type": "int32", "value": 7}}`))
	}))
	defer server.Close()

	client, err := httprpc.New(server.URL)
	require.NoError(t, err)

	resp, err := client.Run(context.Background(), transport.Call{
		Operator: "stream_provider",
		Inputs:   map[int]transport.Payload{4: transport.StringPayload("file.rst")},
		Output:   0,
	})
	require.NoError(t, err)

	assert.Equal(t, "/operators/stream_provider/run", gotPath)
	assert.NotEmpty(t, gotRequestID, "every request carries a request ID")

	n, err := resp.AsInt()
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	assert.Contains(t, gotBody, "inputs")
	assert.JSONEq(t, `0`, string(gotBody["output"]))
}

func TestClient_Run_EscapesOperatorName(t *testing.T) {
	var gotRawPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawPath = r.URL.EscapedPath()
		w.Write([]byte(`{"output": {"type": "bool", "value": true}}`))
	}))
	defer server.Close()

	client, err := httprpc.New(server.URL)
	require.NoError(t, err)

	_, err = client.Run(context.Background(), transport.Call{Operator: "scoping::by_property"})
	require.NoError(t, err)
	assert.Contains(t, gotRawPath, "scoping%3A%3Aby_property")
}

func TestClient_Run_MapsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "results file is not defined in the Data sources"}`))
	}))
	defer server.Close()

	client, err := httprpc.New(server.URL)
	require.NoError(t, err)

	_, err = client.Run(context.Background(), transport.Call{Operator: "ResultInfoProvider"})
	require.Error(t, err)

	var rerr *transport.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "ResultInfoProvider", rerr.Operator)
	assert.Equal(t, "results file is not defined in the Data sources", rerr.Message)
}

func TestClient_Run_MapsOpaqueErrorBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client, err := httprpc.New(server.URL)
	require.NoError(t, err)

	_, err = client.Run(context.Background(), transport.Call{Operator: "U"})
	var rerr *transport.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "502")
}

func TestClient_CreateField_FailureCarriesNoOperatorName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInsufficientStorage)
		w.Write([]byte(`{"message": "out of memory"}`))
	}))
	defer server.Close()

	client, err := httprpc.New(server.URL)
	require.NoError(t, err)

	_, err = client.CreateField(context.Background(), transport.FieldRequest{Nature: "scalar"})
	var rerr *transport.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Empty(t, rerr.Operator, "a field reservation is not an operator evaluation")
	assert.Equal(t, "out of memory", rerr.Message)
	assert.Equal(t, "remote request failed: out of memory", rerr.Error())
}

func TestClient_CreateField(t *testing.T) {
	var gotPath string
	var gotReq transport.FieldRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"id": "field-abc"}`))
	}))
	defer server.Close()

	client, err := httprpc.New(server.URL)
	require.NoError(t, err)

	id, err := client.CreateField(context.Background(), transport.FieldRequest{
		Nature:      "vector",
		Location:    "Nodal",
		ScopingSize: 4,
		DataSize:    12,
	})
	require.NoError(t, err)

	assert.Equal(t, "/fields", gotPath)
	assert.Equal(t, "field-abc", id)
	assert.Equal(t, 4, gotReq.ScopingSize)
	assert.Equal(t, 12, gotReq.DataSize)
}
