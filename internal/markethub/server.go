package markethub

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Server 对外提供快照查询与手动触发采集的 HTTP 接口
type Server struct {
	store     *Store
	collector *Collector
}

func NewServer(store *Store, collector *Collector) *Server {
	return &Server{store: store, collector: collector}
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.wrap(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	api := r.Group("/api")
	api.GET("/symbols", s.wrap(s.handleSymbols))
	api.GET("/runs", s.wrap(s.handleRunsList))
	api.GET("/runs/:runID", s.wrap(s.handleRunGet))
	api.POST("/collect", s.wrap(s.handleCollectNow))

	snapshots := api.Group("/snapshots")
	snapshots.GET("/latest", s.wrap(s.handleLatestBooks))
	snapshots.GET("/tickers/:symbol", s.wrap(s.handleTickerHistory))
	snapshots.GET("/books/:symbol", s.wrap(s.handleBookHistory))

	return r
}

type paramsKeyType string

const paramsKey paramsKeyType = "govitex_path_params"

// wrap adapts net/http handlers to gin, injecting path params into request context.
func (s *Server) wrap(h func(http.ResponseWriter, *http.Request)) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := map[string]string{}
		for _, p := range c.Params {
			m[p.Key] = p.Value
		}
		ctx := context.WithValue(c.Request.Context(), paramsKey, m)
		c.Request = c.Request.WithContext(ctx)
		h(c.Writer, c.Request)
	}
}

func pathParam(r *http.Request, key string) string {
	m, _ := r.Context().Value(paramsKey).(map[string]string)
	return m[key]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}
