package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
)

var tracer = otel.Tracer("internal/shopify")

// maxErrorBody bounds how much of a failed response is kept in HTTPError.
const maxErrorBody = 4 << 10

// Client talks to the Admin GraphQL API of the shop named by the session it is given.
type Client struct {
	httpClient *http.Client
	apiVersion string
	baseURL    string
	logger     *slog.Logger
}

func NewClient(cfg config.Shopify, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiVersion: cfg.APIVersion,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:     logger.With(slog.String("component", "shopify")),
	}
}

func (c *Client) endpoint(shop string) string {
	base := c.baseURL
	if base == "" {
		base = "https://" + shop
	}
	return fmt.Sprintf("%s/admin/api/%s/graphql.json", base, c.apiVersion)
}

// FetchProducts requests one page of first products starting after the given cursor.
// An empty cursor starts from the beginning of the catalog.
func (c *Client) FetchProducts(ctx context.Context, session auth.Session, first int, after string) (ProductsPage, error) {
	ctx, span := tracer.Start(ctx, "shopify.FetchProducts", trace.WithAttributes(
		attribute.String("shop", session.Shop),
		attribute.Int("first", first),
	))
	defer span.End()

	vars := map[string]any{"first": first}
	if after != "" {
		vars["after"] = after
	}

	var data productsData
	if err := c.query(ctx, session, productsQuery, vars, &data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch products")
		return ProductsPage{}, err
	}

	edges := data.Products.Edges
	page := ProductsPage{
		Products:    make([]ProductNode, 0, len(edges)),
		HasNextPage: data.Products.PageInfo.HasNextPage,
	}
	for _, edge := range edges {
		page.Products = append(page.Products, edge.Node)
	}
	if len(edges) > 0 {
		page.EndCursor = edges[len(edges)-1].Cursor
	}

	c.logger.DebugContext(ctx, "fetched products page",
		slog.Int("count", len(page.Products)),
		slog.Bool("has_next_page", page.HasNextPage),
	)

	return page, nil
}

// Pages lazily walks the catalog one page at a time. The sequence ends after the page that
// reports hasNextPage=false, after the first error, or when the consumer stops. Passing a
// previously seen EndCursor as after resumes the walk from there.
func (c *Client) Pages(ctx context.Context, session auth.Session, size int, after string) iter.Seq2[ProductsPage, error] {
	return func(yield func(ProductsPage, error) bool) {
		cursor := after
		for {
			page, err := c.FetchProducts(ctx, session, size, cursor)
			if !yield(page, err) || err != nil {
				return
			}
			if !page.HasNextPage || page.EndCursor == "" {
				return
			}
			cursor = page.EndCursor
		}
	}
}

func (c *Client) query(ctx context.Context, session auth.Session, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(session.Shop), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", session.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return &GraphQLError{Errors: gqlResp.Errors}
	}

	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return fmt.Errorf("response has no data")
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}

	return nil
}
