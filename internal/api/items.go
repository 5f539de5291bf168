package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	apperrors "github.com/erazemk/precificacao/internal/errors"
	"github.com/erazemk/precificacao/internal/model"
	"github.com/erazemk/precificacao/internal/store"
	"github.com/erazemk/precificacao/internal/validate"
)

// maxBodyBytes limits create and update request bodies.
const maxBodyBytes = 1 << 20

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		respondWithError(w, r, apperrors.Wrap(apperrors.ErrInternal, err))
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	item, err := decodeItem(w, r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	id, err := store.CreateItem(r.Context(), h.DB, item)
	if err != nil {
		respondWithError(w, r, apperrors.Wrap(apperrors.ErrInternal, err))
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]int64{"id": id})
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	item, err := decodeItem(w, r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	found, err := store.UpdateItem(r.Context(), h.DB, id, item)
	if err != nil {
		respondWithError(w, r, apperrors.Wrap(apperrors.ErrInternal, err))
		return
	}
	if !found {
		respondWithError(w, r, apperrors.ErrItemNotFound)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	found, err := store.DeleteItem(r.Context(), h.DB, id)
	if err != nil {
		respondWithError(w, r, apperrors.Wrap(apperrors.ErrInternal, err))
		return
	}
	if !found {
		respondWithError(w, r, apperrors.ErrItemNotFound)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// parseID reads the {id} path segment.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apperrors.ErrInvalidID
	}
	return id, nil
}

// decodeItem reads the request body and validates it. An empty body is
// treated as an empty object.
func decodeItem(w http.ResponseWriter, r *http.Request) (model.Item, error) {
	defer r.Body.Close()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.Item{}, apperrors.ErrPayloadTooLarge
		}
		return model.Item{}, apperrors.Wrap(apperrors.ErrInvalidJSON, err)
	}

	var in model.ItemInput
	data = bytes.TrimSpace(data)
	if len(data) > 0 {
		// Unmarshal accepts a top-level null as a no-op.
		if bytes.Equal(data, []byte("null")) {
			return model.Item{}, apperrors.ErrInvalidJSON
		}
		if err := json.Unmarshal(data, &in); err != nil {
			return model.Item{}, apperrors.Wrap(apperrors.ErrInvalidJSON, err)
		}
	}

	item, err := validate.Item(in)
	if err != nil {
		var ve *validate.ValidationError
		if errors.As(err, &ve) {
			return model.Item{}, apperrors.WithMessage(apperrors.ErrValidation, ve.Message)
		}
		if errors.Is(err, validate.ErrNotNumeric) {
			return model.Item{}, apperrors.Wrap(apperrors.ErrInvalidInput, err)
		}
		return model.Item{}, err
	}
	return item, nil
}
