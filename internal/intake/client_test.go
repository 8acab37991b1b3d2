package intake

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/internal/logging"
	"hireflow/pkg/models"
)

type fakeAPI struct {
	mu        sync.Mutex
	uploads   int
	stored    map[string]string
	submitted *models.SubmitApplicationRequest
	failPut   map[int]bool
	signed    string
	submitErr int
	server    *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{stored: map[string]string{}, failPut: map[int]bool{}}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/public/uploads", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.uploads++
		n := api.uploads
		api.mu.Unlock()

		json.NewEncoder(w).Encode(models.UploadURLResponse{
			UploadURL:   api.server.URL + "/bucket/" + string(rune('0'+n)),
			StorageID:   "documents/" + string(rune('0'+n)),
			Method:      http.MethodPut,
			ContentType: api.signed,
		})
	})
	mux.HandleFunc("PUT /bucket/{n}", func(w http.ResponseWriter, r *http.Request) {
		n := int(r.PathValue("n")[0] - '0')
		if api.failPut[n] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body, _ := io.ReadAll(r.Body)
		api.mu.Lock()
		api.stored["documents/"+r.PathValue("n")] = r.Header.Get("Content-Type") + ":" + string(body)
		api.mu.Unlock()
	})
	mux.HandleFunc("POST /api/public/jobs/{id}/applications", func(w http.ResponseWriter, r *http.Request) {
		if api.submitErr != 0 {
			w.WriteHeader(api.submitErr)
			json.NewEncoder(w).Encode(models.ErrorResponse{Error: "unprocessable", Message: "Job not found or not accepting applications"})
			return
		}
		var req models.SubmitApplicationRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		req.JobID = r.PathValue("id")
		api.mu.Lock()
		api.submitted = &req
		api.mu.Unlock()
		json.NewEncoder(w).Encode(models.SubmissionResult{CandidateID: "cand-1", ApplicationID: "app-1", Success: true})
	})

	api.server = httptest.NewServer(mux)
	t.Cleanup(api.server.Close)
	return api
}

func newClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{BaseURL: api.server.URL}, logging.NewMultiLogger())
	require.NoError(t, err)
	return c
}

func validForm() Form {
	return Form{
		JobID:      "job-1",
		Name:       "Grace Hopper",
		Email:      "grace@example.com",
		Location:   "Arlington",
		Experience: "10+ years",
		Skills:     " COBOL, ,Compilers ,",
		GitHub:     "   ",
	}
}

func TestSubmitValidatesBeforeNetwork(t *testing.T) {
	api := newFakeAPI(t)
	c := newClient(t, api)

	for _, blank := range []func(*Form){
		func(f *Form) { f.Name = "" },
		func(f *Form) { f.Email = "  " },
		func(f *Form) { f.Location = "" },
		func(f *Form) { f.Experience = "" },
	} {
		form := validForm()
		form.Resume = &File{Name: "cv.pdf", Data: []byte("pdf")}
		blank(&form)
		_, err := c.Submit(context.Background(), form)
		assert.ErrorIs(t, err, ErrMissingFields)
	}

	assert.Zero(t, api.uploads)
	assert.Nil(t, api.submitted)
}

func TestSubmitWithoutFiles(t *testing.T) {
	api := newFakeAPI(t)
	c := newClient(t, api)

	res, err := c.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, "cand-1", res.CandidateID)
	assert.True(t, res.Success)

	require.NotNil(t, api.submitted)
	assert.Equal(t, "job-1", api.submitted.JobID)
	assert.Equal(t, []string{"COBOL", "Compilers"}, api.submitted.Skills)
	assert.Empty(t, api.submitted.GitHub)
	assert.Empty(t, api.submitted.ResumeStorageID)
	assert.Zero(t, api.uploads)
}

func TestSubmitUploadsDocuments(t *testing.T) {
	api := newFakeAPI(t)
	c := newClient(t, api)

	form := validForm()
	form.Resume = &File{Name: "cv.pdf", ContentType: "application/pdf", Data: []byte("resume")}
	form.CoverLetter = &File{Name: "letter.txt", ContentType: "text/plain", Data: []byte("hello")}

	_, err := c.Submit(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, "documents/1", api.submitted.ResumeStorageID)
	assert.Equal(t, "cv.pdf", api.submitted.ResumeFilename)
	assert.Equal(t, "documents/2", api.submitted.CoverLetterStorageID)
	assert.Equal(t, "letter.txt", api.submitted.CoverLetterFilename)
	assert.Equal(t, "application/pdf:resume", api.stored["documents/1"])
}

func TestSubmitSendsSignedContentType(t *testing.T) {
	api := newFakeAPI(t)
	api.signed = "text/plain"
	c := newClient(t, api)

	form := validForm()
	form.CoverLetter = &File{Name: "letter.txt", ContentType: "text/plain; charset=utf-8", Data: []byte("hello")}

	_, err := c.Submit(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, "documents/1", api.submitted.CoverLetterStorageID)
	assert.Equal(t, "text/plain:hello", api.stored["documents/1"])
}

func TestSubmitFailedUploadMeansNoFile(t *testing.T) {
	api := newFakeAPI(t)
	api.failPut[1] = true
	c := newClient(t, api)

	form := validForm()
	form.Resume = &File{Name: "cv.pdf", Data: []byte("resume")}
	form.CoverLetter = &File{Name: "letter.pdf", Data: []byte("letter")}

	_, err := c.Submit(context.Background(), form)
	require.NoError(t, err)

	assert.Empty(t, api.submitted.ResumeStorageID)
	assert.Empty(t, api.submitted.ResumeFilename)
	assert.Equal(t, "documents/2", api.submitted.CoverLetterStorageID)
	assert.Equal(t, "letter.pdf", api.submitted.CoverLetterFilename)
}

func TestSubmitSurfacesAPIError(t *testing.T) {
	api := newFakeAPI(t)
	api.submitErr = http.StatusUnprocessableEntity
	c := newClient(t, api)

	_, err := c.Submit(context.Background(), validForm())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Job not found or not accepting applications", apiErr.Message)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(ClientConfig{}, logging.NewMultiLogger())
	assert.Error(t, err)
}
