package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/seannamartin08/stock-market-dashboard/internal/calculator"
	"github.com/seannamartin08/stock-market-dashboard/internal/dashboard"
	"github.com/seannamartin08/stock-market-dashboard/internal/loader"
	"github.com/seannamartin08/stock-market-dashboard/internal/model"
	"github.com/seannamartin08/stock-market-dashboard/internal/report"
)

const dateLayout = "2006-01-02"

// Handler serves the dashboard products over HTTP.
type Handler struct {
	svc       *dashboard.Service
	validate  *validator.Validate
	maWindow  int
	bins      int
	maxUpload int64
	log       zerolog.Logger
}

// NewHandler creates a Handler. maWindow and bins are the defaults used
// when a request does not set them.
func NewHandler(svc *dashboard.Service, maWindow, bins int, maxUploadMB int64, log zerolog.Logger) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		svc:       svc,
		validate:  v,
		maWindow:  maWindow,
		bins:      bins,
		maxUpload: maxUploadMB << 20,
		log:       log.With().Str("component", "api").Logger(),
	}
}

// dashboardQuery mirrors the sidebar controls of the dashboard.
type dashboardQuery struct {
	Ticker   string `json:"ticker" validate:"omitempty,max=32"`
	Start    string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End      string `json:"end" validate:"omitempty,datetime=2006-01-02"`
	MAWindow int    `json:"ma_window" validate:"omitempty,min=5,max=60"`
}

func (h *Handler) params(r *http.Request) (dashboard.Params, error) {
	q := dashboardQuery{
		Ticker: strings.TrimSpace(r.FormValue("ticker")),
		Start:  r.FormValue("start"),
		End:    r.FormValue("end"),
	}
	if v := r.FormValue("ma_window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return dashboard.Params{}, fmt.Errorf("%w: ma_window must be an integer", errBadRequest)
		}
		q.MAWindow = n
	}
	if err := h.validate.Struct(q); err != nil {
		return dashboard.Params{}, err
	}

	p := dashboard.Params{Ticker: q.Ticker, MAWindow: q.MAWindow, HistogramBins: h.bins}
	if p.MAWindow == 0 {
		p.MAWindow = h.maWindow
	}
	// Validated above, so the layout always matches.
	if q.Start != "" {
		p.Start, _ = time.Parse(dateLayout, q.Start)
	}
	if q.End != "" {
		p.End, _ = time.Parse(dateLayout, q.End)
	}
	return p, nil
}

// Health returns a simple liveness check.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"status": "ok", "timestamp": time.Now().UTC()})
}

// TickersResponse describes the fallback input.
type TickersResponse struct {
	Tickers     []string       `json:"tickers"`
	Start       string         `json:"start,omitempty"`
	End         string         `json:"end,omitempty"`
	PriceColumn string         `json:"price_column"`
	Rows        int            `json:"rows"`
	Notices     []model.Notice `json:"notices"`
	MAWindow    struct {
		Default int `json:"default"`
		Min     int `json:"min"`
		Max     int `json:"max"`
	} `json:"ma_window"`
}

// Tickers lists the tickers and the observed date span of the fallback input.
// GET /api/tickers
func (h *Handler) Tickers(w http.ResponseWriter, r *http.Request) {
	table, err := h.svc.Table(r.Context(), nil)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := TickersResponse{
		Tickers:     table.Tickers(),
		PriceColumn: table.PriceColumn,
		Rows:        table.Len(),
		Notices:     table.Notices,
	}
	if resp.Tickers == nil {
		resp.Tickers = []string{}
	}
	if resp.Notices == nil {
		resp.Notices = []model.Notice{}
	}
	if first, last, ok := table.Span(); ok {
		resp.Start, resp.End = first.Format(dateLayout), last.Format(dateLayout)
	}
	resp.MAWindow.Default = h.maWindow
	resp.MAWindow.Min = calculator.MinMAWindow
	resp.MAWindow.Max = calculator.MaxMAWindow
	render.JSON(w, r, resp)
}

// Dashboard renders the products for the fallback input.
// GET /api/dashboard?ticker=&start=&end=&ma_window=
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, nil)
}

// Upload renders the products for an uploaded file. The upload is read
// once and never stored. Without a file part the fallback input is used.
// POST /api/dashboard (multipart/form-data, field "file")
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	var upload loader.Source
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		upload, err = loader.Upload(header.Filename, file, h.svc.Options)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	h.run(w, r, upload)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, upload loader.Source) {
	params, err := h.params(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	products, err := h.svc.Run(r.Context(), upload, params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, report.NewView(products))
}
