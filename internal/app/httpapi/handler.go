package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	app "github.com/R3E-Network/bankproducts/internal/app"
	"github.com/R3E-Network/bankproducts/internal/app/domain/bankproduct"
	"github.com/R3E-Network/bankproducts/internal/app/metrics"
	apierrors "github.com/R3E-Network/bankproducts/internal/errors"
	"github.com/R3E-Network/bankproducts/internal/middleware"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

const routeBankProduct = "bankproduct"

// Options toggles optional routes.
type Options struct {
	Metrics bool
}

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app    *app.Application
	router *mux.Router
}

// NewHandler returns a router exposing the bank product REST API together
// with the health and metrics endpoints.
func NewHandler(application *app.Application, opts Options) http.Handler {
	router := mux.NewRouter()
	h := &handler{app: application, router: router}

	router.HandleFunc("/bankproducts", h.createBankProduct).Methods(http.MethodPost)
	router.HandleFunc("/bankproducts", h.listBankProducts).Methods(http.MethodGet)
	router.HandleFunc("/bankproducts/{id}", h.getBankProduct).Methods(http.MethodGet).Name(routeBankProduct)
	router.HandleFunc("/bankproducts/{id}", h.updateBankProduct).Methods(http.MethodPut)
	router.HandleFunc("/bankproducts/{id}", h.deleteBankProduct).Methods(http.MethodDelete)

	router.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	router.HandleFunc("/readyz", h.readyz).Methods(http.MethodGet)
	if opts.Metrics {
		router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
		router.Use(middleware.MetricsMiddleware)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apierrors.Write(w, apierrors.MethodNotAllowed(r.Method))
	})
	return router
}

func (h *handler) createBankProduct(w http.ResponseWriter, r *http.Request) {
	var payload bankproduct.Input
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, apierrors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.app.BankProducts.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	if loc, err := h.router.Get(routeBankProduct).URLPath("id", strconv.FormatInt(created.ID, 10)); err == nil {
		w.Header().Set("Location", loc.String())
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) listBankProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.app.BankProducts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []bankproduct.BankProduct{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handler) getBankProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, found, err := h.app.BankProducts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *handler) updateBankProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload bankproduct.Input
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, apierrors.BadRequest("invalid request body", err))
		return
	}

	updated, found, err := h.app.BankProducts.Update(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteBankProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.app.BankProducts.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.app.BankProducts.Ready(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, apierrors.BadRequest(fmt.Sprintf("invalid id %q", raw), err))
		return 0, false
	}
	return id, true
}

// decodeJSON reads exactly one JSON object from the request body. Unknown
// properties are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	if len(raw) == 0 || raw[0] != '{' {
		return errors.New("request body must be a JSON object")
	}
	return json.Unmarshal(raw, dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	apierrors.Write(w, apierrors.FromError(err))
}
