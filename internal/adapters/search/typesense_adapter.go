package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
	tsclient "github.com/smartlocalbusiness/backend/internal/infrastructure/clients/typesense"
)

const (
	collectionName = "businesses"

	// quick search fetches extra hits because the substring filter may
	// drop some of them
	quickSearchOverfetch = 4
	maxPerPage           = 250
)

// TypesenseAdapter indexes active businesses for quick search
type TypesenseAdapter struct {
	client *typesense.Client
}

var _ providers.BusinessSearchIndex = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client.Client()}
}

// EnsureSchema creates the collection if it does not exist
func (a *TypesenseAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.client.Collection(collectionName).Retrieve(ctx); err == nil {
		return nil
	}

	if _, err := a.client.Collections().Create(ctx, businessSchema()); err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

// Reset drops the collection so the next EnsureSchema recreates it
func (a *TypesenseAdapter) Reset(ctx context.Context) error {
	if _, err := a.client.Collection(collectionName).Delete(ctx); err != nil {
		var httpErr *typesense.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to drop typesense collection: %w", err)
	}
	return nil
}

func businessSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "business_name", Type: "string", Infix: pointer.True(), Sort: pointer.True()},
			{Name: "description", Type: "string", Optional: pointer.True(), Infix: pointer.True()},
			{Name: "address", Type: "string", Optional: pointer.True(), Index: pointer.False()},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "state", Type: "string", Optional: pointer.True()},
			{Name: "category_id", Type: "string", Facet: pointer.True()},
			{Name: "category_name", Type: "string", Facet: pointer.True()},
			{Name: "user_id", Type: "string", Optional: pointer.True(), Index: pointer.False()},
			{Name: "phone_number", Type: "string", Optional: pointer.True(), Index: pointer.False()},
			{Name: "email", Type: "string", Optional: pointer.True(), Index: pointer.False()},
			{Name: "location", Type: "geopoint"},
			{Name: "rating", Type: "float"},
			{Name: "total_reviews", Type: "int32"},
			{Name: "is_verified", Type: "bool"},
			{Name: "is_active", Type: "bool"},
		},
		DefaultSortingField: pointer.String("rating"),
	}
}

// Upsert indexes or replaces a business document
func (a *TypesenseAdapter) Upsert(ctx context.Context, business *entities.BusinessDTO) error {
	if _, err := a.client.Collection(collectionName).Documents().Upsert(ctx, toDocument(business)); err != nil {
		return fmt.Errorf("failed to index business %s: %w", business.ID, err)
	}
	return nil
}

// Delete removes a business from the index. Unknown ids are not an error.
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	if _, err := a.client.Collection(collectionName).Document(id).Delete(ctx); err != nil {
		var httpErr *typesense.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete business from index: %w", err)
	}
	return nil
}

// QuickSearch returns active businesses whose name or description contains
// term, ignoring case, ordered by name. "*" matches every business.
func (a *TypesenseAdapter) QuickSearch(ctx context.Context, term string, limit int) ([]*entities.BusinessDTO, error) {
	result, err := a.client.Collection(collectionName).Documents().Search(ctx, quickSearchParams(term, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search businesses: %w", err)
	}

	businesses := []*entities.BusinessDTO{}
	if result.Hits == nil {
		return businesses, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		b := fromDocument(*hit.Document)
		if !containsTerm(b, term) {
			continue
		}
		businesses = append(businesses, b)
		if len(businesses) == limit {
			break
		}
	}
	return businesses, nil
}

// quickSearchParams turns off typo tolerance and token dropping and turns
// on infix matching, so the index only widens a literal substring match.
// Hits come back in name order rather than by text match score.
func quickSearchParams(term string, limit int) *api.SearchCollectionParams {
	perPage := limit * quickSearchOverfetch
	if perPage > maxPerPage || perPage <= 0 {
		perPage = maxPerPage
	}
	return &api.SearchCollectionParams{
		Q:                   pointer.String(term),
		QueryBy:             pointer.String("business_name,description"),
		FilterBy:            pointer.String("is_active:=true"),
		NumTypos:            pointer.String("0"),
		Infix:               pointer.String("always,always"),
		DropTokensThreshold: pointer.Int(0),
		SortBy:              pointer.String("business_name:asc"),
		PerPage:             pointer.Int(perPage),
	}
}

func containsTerm(b *entities.BusinessDTO, term string) bool {
	if term == "*" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(b.Name), term) ||
		strings.Contains(strings.ToLower(b.Description), term)
}

func toDocument(b *entities.BusinessDTO) map[string]interface{} {
	return map[string]interface{}{
		"id":            b.ID,
		"business_name": b.Name,
		"description":   b.Description,
		"address":       b.Address,
		"city":          b.City,
		"state":         b.State,
		"category_id":   b.CategoryID,
		"category_name": b.CategoryName,
		"user_id":       b.UserID,
		"phone_number":  b.PhoneNumber,
		"email":         b.Email,
		"location":      []float64{b.Latitude, b.Longitude},
		"rating":        b.Rating,
		"total_reviews": b.TotalReviews,
		"is_verified":   b.IsVerified,
		"is_active":     b.IsActive,
	}
}

// fromDocument rebuilds a DTO from a search hit. Typesense decodes numbers
// as float64, and missing optional fields are simply absent.
func fromDocument(doc map[string]interface{}) *entities.BusinessDTO {
	b := &entities.BusinessDTO{
		ID:           stringField(doc, "id"),
		Name:         stringField(doc, "business_name"),
		Description:  stringField(doc, "description"),
		Address:      stringField(doc, "address"),
		City:         stringField(doc, "city"),
		State:        stringField(doc, "state"),
		CategoryID:   stringField(doc, "category_id"),
		CategoryName: stringField(doc, "category_name"),
		UserID:       stringField(doc, "user_id"),
		PhoneNumber:  stringField(doc, "phone_number"),
		Email:        stringField(doc, "email"),
	}

	if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
		b.Latitude, _ = loc[0].(float64)
		b.Longitude, _ = loc[1].(float64)
	}
	if v, ok := doc["rating"].(float64); ok {
		b.Rating = v
	}
	if v, ok := doc["total_reviews"].(float64); ok {
		b.TotalReviews = int(v)
	}
	b.IsVerified, _ = doc["is_verified"].(bool)
	b.IsActive, _ = doc["is_active"].(bool)
	return b
}

func stringField(doc map[string]interface{}, key string) string {
	s, _ := doc[key].(string)
	return s
}
