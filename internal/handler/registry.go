package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ItemLedger_Go/internal/domain"
	"github.com/osse101/ItemLedger_Go/internal/logger"
	"github.com/osse101/ItemLedger_Go/internal/registry"
)

// URL parameter names
const (
	ParamTokenID   = "tokenID"
	ParamPrincipal = "principal"
)

// RegistryReader is the read side of the ledger service
type RegistryReader interface {
	Item(ctx context.Context, tokenID domain.TokenID) (domain.Item, error)
	Inventory(ctx context.Context, owner domain.Principal) ([]domain.Item, error)
	Status(ctx context.Context) registry.Status
}

type tokenIDParams struct {
	TokenID uint64 `validate:"required,gt=0"`
}

type principalParams struct {
	Principal string `validate:"required,max=128,principal"`
}

// RegistryHandler serves the read-only registry API
type RegistryHandler struct {
	reader RegistryReader
}

// NewRegistryHandler creates a handler over reader
func NewRegistryHandler(reader RegistryReader) *RegistryHandler {
	return &RegistryHandler{reader: reader}
}

// Routes mounts the registry endpoints on r
func (h *RegistryHandler) Routes(r chi.Router) {
	r.Get("/registry", h.HandleStatus)
	r.Get("/items/{"+ParamTokenID+"}", h.HandleGetItem)
	r.Get("/owners/{"+ParamPrincipal+"}/items", h.HandleOwnerItems)
}

// HandleStatus returns the registry status snapshot
func (h *RegistryHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	respondValue(w, h.reader.Status(r.Context()))
}

// HandleGetItem returns a single item or a 102 error envelope
func (h *RegistryHandler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, ParamTokenID)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, InvalidInputResponse{
			Error:  ErrMsgInvalidParams,
			Fields: map[string]string{"tokenid": domain.ErrMsgInvalidTokenID},
		})
		return
	}
	if err := GetValidator().ValidateStruct(tokenIDParams{TokenID: id}); err != nil {
		respondInvalid(w, err)
		return
	}

	item, err := h.reader.Item(r.Context(), domain.TokenID(id))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondValue(w, item)
}

// HandleOwnerItems returns the items held by a principal
func (h *RegistryHandler) HandleOwnerItems(w http.ResponseWriter, r *http.Request) {
	principal, err := url.PathUnescape(chi.URLParam(r, ParamPrincipal))
	if err != nil {
		respondInvalid(w, err)
		return
	}
	if err := GetValidator().ValidateStruct(principalParams{Principal: principal}); err != nil {
		respondInvalid(w, err)
		return
	}

	items, err := h.reader.Inventory(r.Context(), domain.Principal(principal))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondValue(w, items)
}

func (h *RegistryHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if _, ok := domain.CodeOf(err); !ok {
		logger.FromContext(r.Context()).Error(LogMsgUnexpectedError, "path", r.URL.Path, "error", err)
	}
	respondError(w, err)
}
