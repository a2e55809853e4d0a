package draft

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/manna-erp/manna-erp/internal/order/export"
	"github.com/manna-erp/manna-erp/internal/platform/httpx"
	"github.com/manna-erp/manna-erp/internal/shared"
)

// Handler exposes the draft order API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a draft handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the draft routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Open)
	r.Get("/{id}", h.Show)
	r.Delete("/{id}", h.Cancel)
	r.Put("/{id}/supplier", h.SelectSupplier)
	r.Put("/{id}/order-date", h.SetOrderDate)
	r.Get("/{id}/catalog", h.Catalog)
	r.Post("/{id}/items", h.AddItem)
	r.Patch("/{id}/items/{index}", h.UpdateLine)
	r.Delete("/{id}/items/{index}", h.RemoveItem)
	r.Post("/{id}/submit", h.Submit)
	r.Get("/{id}/export", h.Export)
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Open(r.Context())
	if err != nil {
		h.respondErr(w, "open draft", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, "get draft", err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondErr(w, "cancel draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SelectSupplier(w http.ResponseWriter, r *http.Request) {
	var req selectSupplierRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if fields := shared.Validate(req); fields != nil {
		httpx.RespondError(w, fields)
		return
	}
	o, err := h.service.SelectSupplier(r.Context(), chi.URLParam(r, "id"), req.SupplierID)
	if err != nil {
		h.respondErr(w, "select supplier", err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) SetOrderDate(w http.ResponseWriter, r *http.Request) {
	var req setOrderDateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if fields := shared.Validate(req); fields != nil {
		httpx.RespondError(w, fields)
		return
	}
	date, _ := time.Parse("2006-01-02", req.OrderDate)
	o, err := h.service.SetOrderDate(r.Context(), chi.URLParam(r, "id"), date)
	if err != nil {
		h.respondErr(w, "set order date", err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Catalog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, "list catalog", err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if fields := shared.Validate(req); fields != nil {
		httpx.RespondError(w, fields)
		return
	}
	o, err := h.service.AddItem(r.Context(), chi.URLParam(r, "id"), req.ItemID)
	if err != nil {
		h.respondErr(w, "add item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid line index")
		return
	}
	var req updateLineRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	id := chi.URLParam(r, "id")
	ctx := r.Context()
	var o *Order
	if req.OrderQty != nil {
		if o, err = h.service.SetQuantity(ctx, id, index, *req.OrderQty); err != nil {
			h.respondErr(w, "set quantity", err)
			return
		}
	}
	if req.Discount != nil {
		if o, err = h.service.SetDiscount(ctx, id, index, *req.Discount); err != nil {
			h.respondErr(w, "set discount", err)
			return
		}
	}
	if req.PackingUnit != nil {
		if o, err = h.service.SetPackingUnit(ctx, id, index, *req.PackingUnit); err != nil {
			h.respondErr(w, "set packing unit", err)
			return
		}
	}
	if o == nil {
		if o, err = h.service.Get(ctx, id); err != nil {
			h.respondErr(w, "get draft", err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid line index")
		return
	}
	o, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		h.respondErr(w, "remove item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	result, verrs, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, "submit draft", err)
		return
	}
	if len(verrs) > 0 {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", verrs)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, "export draft", err)
		return
	}
	rows := make([]export.Row, 0, len(o.Items))
	for _, li := range o.Items {
		rows = append(rows, export.Row{
			ItemNo:      li.ItemNo,
			Name:        li.Name,
			StockUnit:   li.StockUnit,
			PackingUnit: li.PackingUnit,
			OrderQty:    li.OrderQty,
			UnitPrice:   li.UnitPrice,
			ItemAmount:  li.ItemAmount,
			Discount:    li.Discount,
			NetAmount:   li.NetAmount,
		})
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="purchase-order-%s.csv"`, o.OrderNo))
	t := o.Totals()
	if err := export.WriteLineItemsCSV(w, rows, export.Summary{
		ItemTotal:     t.ItemTotal,
		DiscountTotal: t.DiscountTotal,
		NetAmount:     t.NetAmount,
	}); err != nil {
		h.logger.Error("write draft csv", slog.Any("error", err))
	}
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrLineNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrItemAlreadyPlaced), errors.Is(err, ErrSubmitInProgress):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrNoSupplier),
		errors.Is(err, ErrUnknownItem),
		errors.Is(err, ErrUnknownSupplier),
		errors.Is(err, ErrWrongSupplier):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
