package search

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/formforge/backend/internal/entity"
	"github.com/meilisearch/meilisearch-go"
)

const formsIndex = "forms"

// FormDocument is the searchable projection of a form.
type FormDocument struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	CreatedAt   int64  `json:"created_at"`
}

type SearchHit struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// SearchService keeps the forms index in sync and serves owner-scoped
// queries. A nil client disables the feature without failing callers.
type SearchService interface {
	IndexForm(form *entity.Form) error
	DeleteForm(id string) error
	SearchForms(ownerID, query string, limit int) ([]SearchHit, error)
	Enabled() bool
}

type searchService struct {
	client meilisearch.ServiceManager
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	if client != nil {
		s.initIndex()
	}
	return s
}

func (s *searchService) initIndex() {
	filterable := []any{"owner_id", "category"}
	if _, err := s.client.Index(formsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("failed to update forms filterable attributes: %v", err)
	}

	sortable := []string{"created_at"}
	if _, err := s.client.Index(formsIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("failed to update forms sortable attributes: %v", err)
	}
}

func (s *searchService) Enabled() bool {
	return s.client != nil
}

func (s *searchService) IndexForm(form *entity.Form) error {
	if s.client == nil {
		return nil
	}

	doc := FormDocument{
		ID:          form.ID.String(),
		OwnerID:     form.OwnerID.String(),
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		CreatedAt:   form.CreatedAt.Unix(),
	}

	_, err := s.client.Index(formsIndex).AddDocuments([]FormDocument{doc}, nil)
	return err
}

func (s *searchService) DeleteForm(id string) error {
	if s.client == nil {
		return nil
	}

	_, err := s.client.Index(formsIndex).DeleteDocument(id)
	return err
}

func (s *searchService) SearchForms(ownerID, query string, limit int) ([]SearchHit, error) {
	if s.client == nil {
		return nil, fmt.Errorf("search is not configured")
	}
	if limit <= 0 {
		limit = 20
	}

	resp, err := s.client.Index(formsIndex).Search(query, &meilisearch.SearchRequest{
		Filter: fmt.Sprintf("owner_id = %q", ownerID),
		Limit:  int64(limit),
	})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, 0, len(resp.Hits))
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}
