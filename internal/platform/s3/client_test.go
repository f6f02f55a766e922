package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "fsn1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient: &http.Client{
			Transport: &http.Transport{},
		},
	})

	return &Client{s3: client, region: "fsn1"}
}

func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

type recordedRequest struct {
	method      string
	path        string
	contentType string
	body        string
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) add(req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, recordedRequest{
		method:      req.Method,
		path:        req.URL.Path,
		contentType: req.Header.Get("Content-Type"),
		body:        string(body),
	})
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient("https://fsn1.your-objectstorage.com", "fsn1", "key", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.region != "fsn1" {
		t.Errorf("expected region fsn1, got %s", client.region)
	}
}

func TestReportKey(t *testing.T) {
	t.Parallel()

	if got := ReportKey("api", "run-1", "json"); got != "appstack/api/run-1.json" {
		t.Errorf("ReportKey() = %q", got)
	}
}

func TestUpload_ExistingBucket(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		w.WriteHeader(http.StatusOK)
	}))

	err := client.Upload(context.Background(), "reports", "appstack/api/run-1.json", "application/json", []byte(`{"name":"api"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.requests) != 2 {
		t.Fatalf("expected HEAD and PUT, got %+v", rec.requests)
	}
	if rec.requests[0].method != http.MethodHead {
		t.Errorf("first request = %s, want HEAD", rec.requests[0].method)
	}
	put := rec.requests[1]
	if put.method != http.MethodPut || put.path != "/reports/appstack/api/run-1.json" {
		t.Errorf("unexpected put %s %s", put.method, put.path)
	}
	if put.contentType != "application/json" {
		t.Errorf("content type = %q", put.contentType)
	}
	if !strings.Contains(put.body, `"name":"api"`) {
		t.Errorf("body = %q", put.body)
	}
}

func TestUpload_CreatesMissingBucket(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.Upload(context.Background(), "reports", "k.yaml", "", []byte("a: b\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var methods []string
	for _, r := range rec.requests {
		methods = append(methods, r.method+" "+r.path)
	}
	want := []string{"HEAD /reports", "PUT /reports", "PUT /reports/k.yaml"}
	if strings.Join(methods, ",") != strings.Join(want, ",") {
		t.Errorf("requests = %v, want %v", methods, want)
	}
}

func TestUpload_HeadError(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	err := client.Upload(context.Background(), "reports", "k", "", nil)
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "failed to check bucket reports") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestCreateBucket_AlreadyOwnedByYou(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 409, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>BucketAlreadyOwnedByYou</Code>
  <Message>Your previous request to create the named bucket succeeded and you already own it.</Message>
  <BucketName>reports</BucketName>
</Error>`)
	}))

	if err := client.CreateBucket(context.Background(), "reports"); err != nil {
		t.Fatalf("expected nil error for already owned bucket, got: %v", err)
	}
}

func TestPutObject_Error(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 403, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>AccessDenied</Code>
  <Message>Access Denied</Message>
</Error>`)
	}))

	err := client.PutObject(context.Background(), "reports", "k", "", []byte("x"))
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "failed to put object k in bucket reports") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		wantOwned    bool
		wantNotFound bool
	}{
		{"nil error", nil, false, false},
		{"plain error", errors.New("boom"), false, false},
		{"typed owned", &s3types.BucketAlreadyOwnedByYou{}, true, false},
		{"typed exists", fmt.Errorf("wrap: %w", &s3types.BucketAlreadyExists{}), true, false},
		{"typed no such bucket", &s3types.NoSuchBucket{}, false, true},
		{"typed not found", fmt.Errorf("wrap: %w", &s3types.NotFound{}), false, true},
		{"generic owned code", &smithy.GenericAPIError{Code: "BucketAlreadyOwnedByYou"}, true, false},
		{"generic 404 code", &smithy.GenericAPIError{Code: "404"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isBucketAlreadyOwnedByYou(tt.err); got != tt.wantOwned {
				t.Errorf("isBucketAlreadyOwnedByYou() = %v, want %v", got, tt.wantOwned)
			}
			if got := isNotFoundError(tt.err); got != tt.wantNotFound {
				t.Errorf("isNotFoundError() = %v, want %v", got, tt.wantNotFound)
			}
		})
	}
}
