package event

const (
	TopicCatalogPageImported = "catalog.page_imported"
	TopicProductDeleted      = "product.deleted"
)

type CatalogPageImportedEvent struct {
	Shop          string   `json:"shop"`
	ImportedCount int      `json:"imported_count"`
	IDs           []string `json:"ids"`
	ProductIDs    []string `json:"product_ids"`
}

type ProductDeletedEvent struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
}
