package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/wallboard/wallboard/app/files"
	"github.com/wallboard/wallboard/app/transport"
)

type fakeStorage struct {
	body []byte
	err  error
}

func (f *fakeStorage) FileContent(_ context.Context, filePath string) (*transport.Payload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &transport.Payload{Body: f.body, SourcePath: filePath}, nil
}

func (f *fakeStorage) Ping(context.Context) error {
	return f.err
}

func proposalsRequest(t *testing.T, storage *fakeStorage, proposalsPath string) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := &Handler{
		filesService:  files.NewService(storage),
		proposalsPath: proposalsPath,
	}
	r := gin.New()
	r.GET("/proposals", handler.GetProposals)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proposals", nil))

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return w.Code, body
}

func TestGetProposalsSuccess(t *testing.T) {
	storage := &fakeStorage{body: []byte("name;amount\nAlpha;10\nBeta;20\n")}

	status, body := proposalsRequest(t, storage, "/Documents/proposals.csv")

	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d", status)
	}
	if body["success"] != true {
		t.Error("Expected success envelope")
	}
	if body["parsing_result"] == nil {
		t.Error("Expected parsing_result in envelope")
	}
	fileInfo, ok := body["file_info"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected file_info object")
	}
	if fileInfo["type"] != "csv" {
		t.Errorf("Expected detected type 'csv', got: %v", fileInfo["type"])
	}
}

func TestGetProposalsEmptyFile(t *testing.T) {
	status, body := proposalsRequest(t, &fakeStorage{body: []byte{}}, "/Documents/proposals.csv")

	if status != http.StatusNotFound {
		t.Fatalf("Expected status 404 for an empty file, got: %d", status)
	}
	if body["success"] != false {
		t.Error("Expected failure envelope")
	}
	if body["error"] != "File is empty or could not be read" {
		t.Errorf("Unexpected error: %v", body["error"])
	}
}

func TestGetProposalsUnsupportedFormat(t *testing.T) {
	storage := &fakeStorage{body: []byte("binary")}

	status, body := proposalsRequest(t, storage, "/Documents/report.pdf")

	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for an unsupported format, got: %d", status)
	}
	if body["error"] != "Unsupported file format" {
		t.Errorf("Unexpected error: %v", body["error"])
	}
	if body["supported_formats"] == nil {
		t.Error("Expected supported_formats in envelope")
	}
	if body["detected_format"] != "pdf" {
		t.Errorf("Expected detected_format 'pdf', got: %v", body["detected_format"])
	}
}

func TestGetProposalsUpstreamUnreachable(t *testing.T) {
	storage := &fakeStorage{err: &transport.Error{Status: 502, Message: "bad gateway"}}

	status, body := proposalsRequest(t, storage, "/Documents/proposals.csv")

	if status != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503 for an unreachable upstream, got: %d", status)
	}
	if body["error"] != "Unable to connect to Nextcloud server" {
		t.Errorf("Unexpected error: %v", body["error"])
	}
}

func TestGetProposalsParseFailure(t *testing.T) {
	storage := &fakeStorage{body: []byte("definitely not xml <<<")}

	status, body := proposalsRequest(t, storage, "/Documents/proposals.xml")

	if status != http.StatusInternalServerError {
		t.Fatalf("Expected status 500 for a parse failure, got: %d", status)
	}
	if body["error"] != "File parsing failed" {
		t.Errorf("Unexpected error: %v", body["error"])
	}
}
