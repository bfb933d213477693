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

var _ = Describe("GraphHandler", func() {
	var (
		router *gin.Engine
		svc    *mockGraphService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockGraphService{}
		h := handler.NewGraphHandler(svc)
		router.POST("/nodes", h.CreateNode)
		router.GET("/nodes", h.ListNodes)
		router.POST("/nodes/connect", h.Connect)
	})

	post := func(path string, payload any) *httptest.ResponseRecorder {
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("POST /nodes", func() {
		It("returns 201 with the created node", func() {
			svc.createNodeFn = func(_ context.Context, name string) (*model.Node, error) {
				return &model.Node{ID: 123, Name: name}, nil
			}

			w := post("/nodes", map[string]string{"name": "alpha"})

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("123"))
			Expect(resp["name"]).To(Equal("alpha"))
		})

		It("returns 400 when the name is missing", func() {
			w := post("/nodes", map[string]string{})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 on a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/nodes", bytes.NewBufferString(`{`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 409 on a duplicate name", func() {
			svc.createNodeFn = func(_ context.Context, name string) (*model.Node, error) {
				return nil, fmt.Errorf("creating node %q: %w", name, store.ErrDuplicateNode)
			}

			w := post("/nodes", map[string]string{"name": "alpha"})
			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("GET /nodes", func() {
		It("returns the node list with a count", func() {
			svc.listNodesFn = func(_ context.Context) ([]model.Node, error) {
				return []model.Node{{ID: 1, Name: "alpha"}, {ID: 2, Name: "omega"}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/nodes", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["count"]).To(BeEquivalentTo(2))
			Expect(resp["nodes"]).To(HaveLen(2))
		})
	})

	Describe("POST /nodes/connect", func() {
		It("returns 201 with the created edge", func() {
			svc.connectFn = func(_ context.Context, _, _ string) (*model.Edge, error) {
				return &model.Edge{ID: 10, FromNodeID: 1, ToNodeID: 2}, nil
			}

			w := post("/nodes/connect", map[string]string{"from_node": "alpha", "to_node": "omega"})

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["from_node_id"]).To(Equal("1"))
			Expect(resp["to_node_id"]).To(Equal("2"))
		})

		It("returns 400 on a self loop", func() {
			svc.connectFn = func(_ context.Context, _, _ string) (*model.Edge, error) {
				return nil, store.ErrSelfLoop
			}

			w := post("/nodes/connect", map[string]string{"from_node": "alpha", "to_node": "alpha"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 naming the unknown node", func() {
			svc.connectFn = func(_ context.Context, _, toName string) (*model.Edge, error) {
				return nil, fmt.Errorf("node %q: %w", toName, store.ErrNotFound)
			}

			w := post("/nodes/connect", map[string]string{"from_node": "alpha", "to_node": "ghost"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("ghost"))
		})

		It("returns 409 when the pair is already connected", func() {
			svc.connectFn = func(_ context.Context, _, _ string) (*model.Edge, error) {
				return nil, fmt.Errorf("connecting: %w", store.ErrDuplicateEdge)
			}

			w := post("/nodes/connect", map[string]string{"from_node": "alpha", "to_node": "omega"})
			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})
})
