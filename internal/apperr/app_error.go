package apperr

import "github.com/tuanvumaihuynh/storefront-catalog/pkg/zerror"

const (
	ValidationErrorCode       = "VALIDATION_FAILED"
	UnauthenticatedErrorCode  = "UNAUTHENTICATED"
	RemoteCatalogErrorCode    = "REMOTE_CATALOG_FAILED"
	PersistenceErrorCode      = "PERSISTENCE_FAILED"
	ProductNotFoundErrorCode  = "PRODUCT_NOT_FOUND"
	MethodNotAllowedErrorCode = "METHOD_NOT_ALLOWED"
	RouteNotFoundErrorCode    = "ROUTE_NOT_FOUND"
	UnhealthyErrorCode        = "UNHEALTHY"
)

var (
	ValidationErr       = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	UnauthenticatedErr  = zerror.NewUnauthorized(UnauthenticatedErrorCode, "authentication with the store failed")
	RemoteCatalogErr    = zerror.NewBadGateway(RemoteCatalogErrorCode, "failed to fetch products from the store")
	PersistenceErr      = zerror.NewInternalServerError(PersistenceErrorCode, "failed to access the product database")
	ProductNotFoundErr  = zerror.NewNotFound(ProductNotFoundErrorCode, "product not found")
	MethodNotAllowedErr = zerror.NewMethodNotAllowed(MethodNotAllowedErrorCode, "Method not allowed")
	RouteNotFoundErr    = zerror.NewNotFound(RouteNotFoundErrorCode, "route not found")
	UnhealthyErr        = zerror.NewServiceUnavailable(UnhealthyErrorCode, "database is unavailable")
)
