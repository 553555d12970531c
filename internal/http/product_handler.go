package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/envelope"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/zerror"
)

const (
	maxFormBytes = 1 << 20 // 1 MB

	msgProductsListed   = "Products fetched successfully!"
	msgProductFetched   = "Product fetched successfully!"
	msgProductsUploaded = "Products uploaded successfully!"
	msgUploadFailed     = "Failed to upload products."
	msgProductDeleted   = "Product deleted successfully!"
)

type importResponse struct {
	ImportedCount int             `json:"imported_count"`
	Products      []model.Product `json:"products"`
}

type deleteProductRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

type importSession struct {
	Shop string `validate:"required,shopdomain"`
}

type productHandler struct {
	*Service
}

func newProductHandler(s *Service) *productHandler {
	return &productHandler{Service: s}
}

func (h *productHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.handleRequestError(w, r, apperr.ValidationErr.WithMsg("limit must be an integer").WrapParent(err))
			return
		}
		limit = n
	}

	products, err := h.productSvc.ListProducts(r.Context(), limit)
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("product service list products: %w", err))
		return
	}

	h.writeEnvelope(w, r, envelope.OK(http.StatusOK, msgProductsListed, nonNil(products)))
}

func (h *productHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleRequestError(w, r, apperr.ValidationErr.WithMsg("id must be a valid UUID").WrapParent(err))
		return
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("product service get product: %w", err))
		return
	}

	h.writeEnvelope(w, r, envelope.OK(http.StatusOK, msgProductFetched, product))
}

func (h *productHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.handleRequestError(w, r, apperr.ValidationErr.WithMsg("id must be a valid UUID").WrapParent(err))
		return
	}

	h.delete(w, r, id)
}

func (h *productHandler) importProducts(w http.ResponseWriter, r *http.Request) {
	res, err := h.runImport(r)
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	h.writeEnvelope(w, r, envelope.OK(http.StatusCreated, msgProductsUploaded, importResponse{
		ImportedCount: res.ImportedCount,
		Products:      nonNil(res.Products),
	}))
}

// appProducts serves the embedded admin page: GET lists, POST imports and DELETE
// with a productId field deletes. Anything else is rejected with 405.
func (h *productHandler) appProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listProducts(w, r)

	case http.MethodPost:
		res, err := h.runImport(r)
		if err != nil {
			env := envelope.FromError(err)
			env.Message = msgUploadFailed
			h.logger.ErrorContext(r.Context(), "error uploading products", slog.Any("error", err))
			h.writeEnvelope(w, r, env)
			return
		}

		h.writeEnvelope(w, r, envelope.OK(http.StatusOK, msgProductsUploaded, importResponse{
			ImportedCount: res.ImportedCount,
			Products:      nonNil(res.Products),
		}))

	case http.MethodDelete:
		req, err := readDeleteProductRequest(r)
		if err != nil {
			h.handleRequestError(w, r, err)
			return
		}
		if req.ProductID == "" {
			h.handleResponseError(w, r, apperr.MethodNotAllowedErr)
			return
		}

		if err := h.validator.Validate(req); err != nil {
			h.handleRequestError(w, r, err)
			return
		}

		h.delete(w, r, uuid.MustParse(req.ProductID))

	default:
		h.handleResponseError(w, r, apperr.MethodNotAllowedErr)
	}
}

func (h *productHandler) runImport(r *http.Request) (service.ImportResult, error) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		return service.ImportResult{}, apperr.UnauthenticatedErr
	}
	if err := h.validator.Validate(importSession{Shop: session.Shop}); err != nil {
		return service.ImportResult{}, apperr.UnauthenticatedErr.WrapParent(fmt.Errorf("session shop: %w", err))
	}

	res, err := h.catalogSvc.ImportCatalogPage(r.Context(), session)
	if err != nil {
		h.metrics.CatalogImports.WithLabelValues(errorCode(err)).Inc()
		return service.ImportResult{}, fmt.Errorf("catalog service import catalog page: %w", err)
	}

	h.metrics.CatalogImports.WithLabelValues("success").Inc()
	h.metrics.ImportedProducts.Add(float64(res.ImportedCount))

	return res, nil
}

func (h *productHandler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	product, err := h.productSvc.DeleteProduct(r.Context(), id)
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("product service delete product: %w", err))
		return
	}

	h.writeEnvelope(w, r, envelope.OK(http.StatusOK, msgProductDeleted, product))
}

// readDeleteProductRequest reads productId from a JSON, urlencoded or multipart
// body, falling back to the query string. DELETE bodies are not parsed by
// Request.ParseForm, so the body is decoded here.
func readDeleteProductRequest(r *http.Request) (deleteProductRequest, error) {
	var req deleteProductRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	body := http.MaxBytesReader(nil, r.Body, maxFormBytes)

	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return req, apperr.ValidationErr.WithMsg("invalid JSON body").WrapParent(err)
		}

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return req, apperr.ValidationErr.WithMsg("invalid form body").WrapParent(err)
		}
		req.ProductID = r.FormValue("productId")

	default:
		b, err := io.ReadAll(body)
		if err != nil {
			return req, apperr.ValidationErr.WithMsg("invalid form body").WrapParent(err)
		}
		values, err := url.ParseQuery(string(b))
		if err != nil {
			return req, apperr.ValidationErr.WithMsg("invalid form body").WrapParent(err)
		}
		req.ProductID = values.Get("productId")
	}

	if req.ProductID == "" {
		req.ProductID = r.URL.Query().Get("productId")
	}

	return req, nil
}

func errorCode(err error) string {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return zErr.Code()
	}
	return envelope.InternalServerErrorCode
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
