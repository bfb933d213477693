package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hopgraph.app/api/internal/http/handler"
	"hopgraph.app/api/internal/model"
	"hopgraph.app/api/internal/store"
)

var _ = Describe("PathHandler", func() {
	var (
		router *gin.Engine
		svc    *mockPathService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockPathService{}
		h := handler.NewPathHandler(svc)
		router.POST("/path/find", h.Find)
		router.POST("/path/slow-find", h.SlowFind)
		router.GET("/path/result/:job_id", h.Result)
	})

	post := func(path string, payload any) *httptest.ResponseRecorder {
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("POST /path/find", func() {
		It("returns 200 with the path when one exists", func() {
			svc.findPathFn = func(_ context.Context, _, _ string) (model.PathResult, error) {
				return model.PathResult{Found: true, Path: []string{"alpha", "beta", "omega"}}, nil
			}

			w := post("/path/find", map[string]string{"from_node": "alpha", "to_node": "omega"})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["path_exists"]).To(BeTrue())
			Expect(resp["path"]).To(HaveLen(3))
			Expect(resp["from_node"]).To(Equal("alpha"))
			Expect(resp["to_node"]).To(Equal("omega"))
		})

		It("returns 200 with path_exists false when there is no route", func() {
			svc.findPathFn = func(_ context.Context, _, _ string) (model.PathResult, error) {
				return model.PathResult{Found: false, Path: []string{}}, nil
			}

			w := post("/path/find", map[string]string{"from_node": "omega", "to_node": "alpha"})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["path_exists"]).To(BeFalse())
		})

		It("returns 400 for an unknown endpoint", func() {
			svc.findPathFn = func(_ context.Context, _, toName string) (model.PathResult, error) {
				return model.PathResult{}, fmt.Errorf("node %q: %w", toName, store.ErrNotFound)
			}

			w := post("/path/find", map[string]string{"from_node": "alpha", "to_node": "ghost"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("ghost"))
		})

		It("returns 400 on a missing field", func() {
			w := post("/path/find", map[string]string{"from_node": "alpha"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /path/slow-find", func() {
		It("returns 202 with the pending job", func() {
			svc.submitFindPathFn = func(_ context.Context, fromName, toName string) (*model.Job, error) {
				return &model.Job{ID: 99, FromNode: fromName, ToNode: toName, State: model.JobStatePending}, nil
			}

			w := post("/path/slow-find", map[string]string{"from_node": "alpha", "to_node": "omega"})

			Expect(w.Code).To(Equal(http.StatusAccepted))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["job_id"]).To(Equal("99"))
			Expect(resp["status"]).To(Equal("PENDING"))
		})

		It("returns 400 for an unknown endpoint", func() {
			svc.submitFindPathFn = func(_ context.Context, fromName, _ string) (*model.Job, error) {
				return nil, fmt.Errorf("node %q: %w", fromName, store.ErrNotFound)
			}

			w := post("/path/slow-find", map[string]string{"from_node": "ghost", "to_node": "omega"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /path/result/:job_id", func() {
		It("returns 200 with PENDING while the job is queued", func() {
			svc.getJobFn = func(_ context.Context, jobID int64) (*model.Job, error) {
				return &model.Job{ID: jobID, FromNode: "alpha", ToNode: "omega", State: model.JobStatePending}, nil
			}

			w := get("/path/result/99")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("PENDING"))
		})

		It("projects a retrying job as PENDING", func() {
			lastErr := "connection refused"
			svc.getJobFn = func(_ context.Context, jobID int64) (*model.Job, error) {
				return &model.Job{
					ID: jobID, FromNode: "alpha", ToNode: "omega",
					State: model.JobStateRetrying, Attempt: 2, ErrorMessage: &lastErr,
				}, nil
			}

			w := get("/path/result/99")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("PENDING"))
			Expect(resp["attempt"]).To(BeEquivalentTo(2))
			Expect(resp["last_error"]).To(Equal(lastErr))
		})

		It("returns the result once the job succeeded", func() {
			svc.getJobFn = func(_ context.Context, jobID int64) (*model.Job, error) {
				return &model.Job{
					ID: jobID, FromNode: "alpha", ToNode: "omega",
					State:  model.JobStateSucceeded,
					Result: &model.PathResult{Found: true, Path: []string{"alpha", "omega"}},
				}, nil
			}

			w := get("/path/result/99")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("SUCCESS"))
			Expect(resp["path_exists"]).To(BeTrue())
			Expect(resp["path"]).To(HaveLen(2))
		})

		It("returns FAILURE with the recorded error", func() {
			errMsg := `node "ghost" does not exist`
			svc.getJobFn = func(_ context.Context, jobID int64) (*model.Job, error) {
				return &model.Job{
					ID: jobID, FromNode: "alpha", ToNode: "ghost",
					State: model.JobStateFailed, Attempt: 1, ErrorMessage: &errMsg,
				}, nil
			}

			w := get("/path/result/99")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("FAILURE"))
			Expect(resp["error"]).To(Equal(errMsg))
		})

		It("returns 404 for an unknown job id", func() {
			svc.getJobFn = func(_ context.Context, _ int64) (*model.Job, error) {
				return nil, store.ErrNotFound
			}

			w := get("/path/result/424242")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 404 for a non-numeric job id", func() {
			svc.getJobFn = func(_ context.Context, _ int64) (*model.Job, error) {
				Fail("a non-numeric id must not reach the service")
				return nil, nil
			}

			w := get("/path/result/not-a-number")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
