package server

import (
	"time"

	"docuvault/cmd/collection-service/internal/domain"
)

type collectionView struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Description    string                  `json:"description,omitempty"`
	CollectionType string                  `json:"collectionType"`
	Visibility     string                  `json:"visibility"`
	Tags           []string                `json:"tags"`
	DocumentIDs    []string                `json:"documentIds,omitempty"`
	Query          *domain.CollectionQuery `json:"query,omitempty"`
	OwnerID        string                  `json:"ownerId"`
	CreatedAt      time.Time               `json:"createdAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
}

func toCollectionView(coll *domain.Collection) *collectionView {
	view := &collectionView{
		ID:             coll.ID,
		Name:           coll.Name,
		Description:    coll.Description,
		CollectionType: string(coll.Type),
		Visibility:     string(coll.Visibility),
		Tags:           coll.Tags,
		OwnerID:        coll.OwnerID,
		CreatedAt:      coll.CreatedAt,
		UpdatedAt:      coll.UpdatedAt,
	}
	if coll.IsSmart() {
		view.Query = coll.Query
	} else {
		view.DocumentIDs = coll.DocumentIDs
	}
	return view
}

type documentView struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Category     string                 `json:"category,omitempty"`
	DocumentType string                 `json:"documentType,omitempty"`
	Visibility   string                 `json:"visibility,omitempty"`
	Tags         []string               `json:"tags,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

func toDocumentView(doc *domain.Shard) *documentView {
	return &documentView{
		ID:           doc.ID,
		Name:         doc.Name,
		Category:     doc.Category,
		DocumentType: doc.DocumentType,
		Visibility:   doc.Visibility,
		Tags:         doc.Tags,
		Data:         doc.Data,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
