package fusion

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	handler := NewHandler(testService())
	handler.RegisterRoutes(app)
	return app
}

func uploadRequest(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = io.Copy(part, strings.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	app := setupTestApp(t)

	body, contentType := uploadRequest(t, map[string]string{
		"orders.csv": "id,total\n1,9.5\n2,12\n",
	})
	req := httptest.NewRequest("POST", "/fusion/files", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(SessionHeader), "a session ID is assigned")

	var parsed struct {
		SessionID string `json:"session_id"`
		Files     []struct {
			Name string   `json:"name"`
			Rows int      `json:"rows"`
			Cols []string `json:"columns"`
		} `json:"files"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.Len(t, parsed.Files, 1)
	assert.Equal(t, "orders.csv", parsed.Files[0].Name)
	assert.Equal(t, 2, parsed.Files[0].Rows)
}

func TestHandleUploadRejectsUnknownFormat(t *testing.T) {
	app := setupTestApp(t)

	body, contentType := uploadRequest(t, map[string]string{"notes.txt": "hello"})
	req := httptest.NewRequest("POST", "/fusion/files", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var parsed map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Contains(t, parsed["error"], "unsupported")
}

func TestMergeAndExportFlow(t *testing.T) {
	app := setupTestApp(t)
	const sid = "test-session"

	body, contentType := uploadRequest(t, map[string]string{
		"a.csv": "id,val\n1,10\n2,20\n",
		"b.csv": "id,val\n2,99\n3,30\n",
	})
	req := httptest.NewRequest("POST", "/fusion/files", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(SessionHeader, sid)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	spec := `{"method":"join","key":"id","join":"inner"}`
	req = httptest.NewRequest("POST", "/fusion/merge", strings.NewReader(spec))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, sid)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var mergeResp struct {
		Method  string `json:"method"`
		Preview struct {
			NumRows int `json:"num_rows"`
		} `json:"preview"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&mergeResp))
	assert.Equal(t, "join", mergeResp.Method)
	assert.Equal(t, 1, mergeResp.Preview.NumRows)

	req = httptest.NewRequest("GET", "/fusion/export?format=csv&filename=joined", nil)
	req.Header.Set(SessionHeader, sid)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "joined.csv")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id,val,val_1")
}

func TestMergeWithoutFiles(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest("POST", "/fusion/merge", strings.NewReader(`{"method":"append"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestStepRoutes(t *testing.T) {
	app := setupTestApp(t)
	const sid = "step-session"

	body, contentType := uploadRequest(t, map[string]string{"a.csv": "v\n5\n15\n25\n"})
	req := httptest.NewRequest("POST", "/fusion/files", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(SessionHeader, sid)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("POST", "/fusion/merge", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, sid)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	step := `{"kind":"row_filter","column":"v","operator":"greater_than","operand":"10"}`
	req = httptest.NewRequest("POST", "/fusion/steps", strings.NewReader(step))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, sid)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var steps struct {
		Preview struct {
			NumRows int `json:"num_rows"`
		} `json:"preview"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&steps))
	assert.Equal(t, 2, steps.Preview.NumRows)

	// A non-numeric index must be rejected without touching the pipeline.
	req = httptest.NewRequest("DELETE", "/fusion/steps/abc", nil)
	req.Header.Set(SessionHeader, sid)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	req = httptest.NewRequest("DELETE", "/fusion/steps/0", nil)
	req.Header.Set(SessionHeader, sid)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&steps))
	assert.Equal(t, 3, steps.Preview.NumRows)

	req = httptest.NewRequest("DELETE", "/fusion/steps/7", nil)
	req.Header.Set(SessionHeader, sid)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleTransformers(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest("GET", "/fusion/transformers", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
