package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	"github.com/google/uuid"

	"cardstock"
	"cardstock/justtcg"
)

type serveCmd struct {
	addr     string
	cooldown time.Duration
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the catalog over HTTP for the web admin" }
func (*serveCmd) Usage() string {
	return `csk serve [-addr <host:port>] [-cooldown <d>]

  Serve the catalog as a JSON API:

    GET   /healthz            liveness
    GET   /api/items          the full catalog
    GET   /api/items/:key     one item
    PATCH /api/items/:key     edit quantity or pricing percent
    POST  /api/refresh        force a price sync (rate limited by -cooldown)
    GET   /api/export.csv     spreadsheet export
    GET   /api/export.xlsx    same, for the ones who never open a .csv
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":8080", "listen address")
	f.DurationVar(&c.cooldown, "cooldown", 10*time.Minute, "minimum delay between two on-demand refreshes")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	srv := &server{
		store:    OpenStore(),
		fetcher:  justtcg.New(justtcg.APIKey()),
		cooldown: c.cooldown,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestID())

	r.GET("/healthz", func(gc *gin.Context) {
		gc.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "cardstock"})
	})

	api := r.Group("/api")
	api.GET("/items", srv.listItems)
	api.GET("/items/:key", srv.getItem)
	api.PATCH("/items/:key", srv.patchItem)
	api.POST("/refresh", srv.refresh)
	api.GET("/export.csv", srv.exportCSV)
	api.GET("/export.xlsx", srv.exportXLSX)

	fmt.Printf("Serving catalog %s on %s\n", srv.store.Path, c.addr)
	if err := r.Run(c.addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: server stopped: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// requestID tags every request with an id, echoed in the response header
// for log correlation.
func requestID() gin.HandlerFunc {
	return func(gc *gin.Context) {
		id := gc.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		gc.Set("requestId", id)
		gc.Header("X-Request-ID", id)
		gc.Next()
	}
}

type server struct {
	store    *cardstock.Store
	fetcher  cardstock.PriceFetcher
	cooldown time.Duration

	mu          sync.Mutex
	lastRefresh time.Time
}

func (s *server) listItems(gc *gin.Context) {
	doc, err := s.store.Read()
	if err != nil {
		fail(gc, http.StatusInternalServerError, "STORE_READ", err)
		return
	}
	gc.JSON(http.StatusOK, gin.H{"success": true, "data": doc})
}

func (s *server) getItem(gc *gin.Context) {
	doc, err := s.store.Read()
	if err != nil {
		fail(gc, http.StatusInternalServerError, "STORE_READ", err)
		return
	}
	it, ok := cardstock.Index(doc.Items)[gc.Param("key")]
	if !ok {
		failMsg(gc, http.StatusNotFound, "NOT_FOUND", "no item with key "+gc.Param("key"))
		return
	}
	gc.JSON(http.StatusOK, gin.H{"success": true, "data": it})
}

// patchItem edits the admin-owned fields of one item. Prices and baselines
// are sync's business and not patchable.
func (s *server) patchItem(gc *gin.Context) {
	var req struct {
		Quantity       *int     `json:"quantity"`
		PricingPercent *float64 `json:"pricingPercent"`
		Name           *string  `json:"name"`
		SetName        *string  `json:"setName"`
	}
	if err := gc.ShouldBindJSON(&req); err != nil {
		fail(gc, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	doc, err := s.store.Read()
	if err != nil {
		fail(gc, http.StatusInternalServerError, "STORE_READ", err)
		return
	}
	it, ok := cardstock.Index(doc.Items)[gc.Param("key")]
	if !ok {
		failMsg(gc, http.StatusNotFound, "NOT_FOUND", "no item with key "+gc.Param("key"))
		return
	}

	if req.Quantity != nil {
		if *req.Quantity < 0 {
			failMsg(gc, http.StatusBadRequest, "INVALID_QUANTITY", "quantity cannot be negative")
			return
		}
		it.Quantity = *req.Quantity
	}
	if req.PricingPercent != nil {
		p := cardstock.Percent(*req.PricingPercent)
		if *req.PricingPercent == 0 {
			it.PricingPercent = nil
		} else if !cardstock.ValidPricingPercent(p) {
			failMsg(gc, http.StatusBadRequest, "INVALID_PERCENT", "pricing percent out of range")
			return
		} else {
			it.PricingPercent = &p
			if it.MarketPrice != nil {
				yours := it.MarketPrice.ApplyPercent(p)
				it.YourPrice = &yours
			}
		}
	}
	if req.Name != nil {
		it.Name = *req.Name
	}
	if req.SetName != nil {
		it.SetName = *req.SetName
	}

	if err := s.store.Write(doc.Items); err != nil {
		fail(gc, http.StatusInternalServerError, "STORE_WRITE", err)
		return
	}
	gc.JSON(http.StatusOK, gin.H{"success": true, "data": it})
}

// refresh forces a sync of every in-stock item. The cooldown keeps a
// click-happy admin from burning the service's call budget; it also
// serializes runs, honoring the store's single-writer precondition.
func (s *server) refresh(gc *gin.Context) {
	s.mu.Lock()
	if since := time.Since(s.lastRefresh); since < s.cooldown {
		s.mu.Unlock()
		failMsg(gc, http.StatusTooManyRequests, "COOLDOWN",
			fmt.Sprintf("last refresh was %s ago, retry in %s", since.Round(time.Second), (s.cooldown-since).Round(time.Second)))
		return
	}
	// Claim the slot before the slow fetch so a second click during the
	// run is already in cooldown.
	s.lastRefresh = time.Now()
	s.mu.Unlock()

	report, err := cardstock.NewEngine(s.store, s.fetcher).Sync(gc.Request.Context(), cardstock.Refreshable)
	if err != nil {
		fail(gc, http.StatusBadGateway, "SYNC_FAILED", err)
		return
	}
	gc.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

func (s *server) exportCSV(gc *gin.Context) {
	doc, err := s.store.Read()
	if err != nil {
		fail(gc, http.StatusInternalServerError, "STORE_READ", err)
		return
	}
	gc.Header("Content-Disposition", `attachment; filename="catalog.csv"`)
	gc.Header("Content-Type", "text/csv")
	if err := cardstock.ExportCSV(gc.Writer, doc.Items); err != nil {
		fail(gc, http.StatusInternalServerError, "EXPORT", err)
	}
}

func (s *server) exportXLSX(gc *gin.Context) {
	doc, err := s.store.Read()
	if err != nil {
		fail(gc, http.StatusInternalServerError, "STORE_READ", err)
		return
	}
	gc.Header("Content-Disposition", `attachment; filename="catalog.xlsx"`)
	gc.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := cardstock.ExportXLSX(gc.Writer, doc.Items); err != nil {
		fail(gc, http.StatusInternalServerError, "EXPORT", err)
	}
}

func fail(gc *gin.Context, status int, code string, err error) {
	failMsg(gc, status, code, err.Error())
}

func failMsg(gc *gin.Context, status int, code, msg string) {
	gc.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": msg},
	})
}
