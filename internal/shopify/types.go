package shopify

import (
	"encoding/json"
	"fmt"
	"strings"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLErr    `json:"errors"`
}

// GraphQLErr is one entry of the errors array of a GraphQL response.
type GraphQLErr struct {
	Message string         `json:"message"`
	Path    []any          `json:"path,omitempty"`
	Ext     map[string]any `json:"extensions,omitempty"`
}

// GraphQLError is returned when the response carries a non-empty errors array.
type GraphQLError struct {
	Errors []GraphQLErr
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Message)
	}
	return fmt.Sprintf("graphql errors: %s", strings.Join(msgs, "; "))
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API request failed: %d - %s", e.StatusCode, e.Body)
}

type productsData struct {
	Products struct {
		Edges []struct {
			Node   ProductNode `json:"node"`
			Cursor string      `json:"cursor"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool `json:"hasNextPage"`
		} `json:"pageInfo"`
	} `json:"products"`
}

// ProductNode is a product as returned by the Admin API, nested connections included.
type ProductNode struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Vendor      string  `json:"vendor"`
	Description *string `json:"description"`
	Images      struct {
		Edges []struct {
			Node Image `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node Variant `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type Image struct {
	Src     *string `json:"src"`
	AltText *string `json:"altText"`
}

type Variant struct {
	Price *string `json:"price"`
}

// FirstImage returns the first image, if the product has any.
func (p ProductNode) FirstImage() (Image, bool) {
	if len(p.Images.Edges) == 0 {
		return Image{}, false
	}
	return p.Images.Edges[0].Node, true
}

// FirstVariant returns the first variant, if the product has any.
func (p ProductNode) FirstVariant() (Variant, bool) {
	if len(p.Variants.Edges) == 0 {
		return Variant{}, false
	}
	return p.Variants.Edges[0].Node, true
}

// ProductsPage is one page of products plus what is needed to request the next one.
type ProductsPage struct {
	Products    []ProductNode
	HasNextPage bool
	// EndCursor is the cursor of the last edge, empty for an empty page.
	EndCursor string
}
