package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/models"
	"github.com/Skotchmaster/rbac_api/internal/repo"
	"github.com/Skotchmaster/rbac_api/internal/search"
	"github.com/Skotchmaster/rbac_api/internal/validation"
)

// TestObjectService mirrors writes into Index when one is configured.
// Index failures are logged and never fail the write.
type TestObjectService struct {
	Repo  TestObjectStore
	Index search.Index
}

type TestObjectInput struct {
	Name        string
	Description string
}

func (s *TestObjectService) List(ctx context.Context, offset, limit int) (int64, []models.TestObject, error) {
	return s.Repo.ListTestObjects(ctx, offset, limit)
}

func (s *TestObjectService) Get(ctx context.Context, id uint) (*models.TestObject, error) {
	obj, err := s.Repo.FindTestObjectByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return obj, err
}

func (s *TestObjectService) Create(ctx context.Context, in TestObjectInput) (*models.TestObject, error) {
	if err := validation.Required("name", in.Name); err != nil {
		return nil, err
	}
	obj := &models.TestObject{Name: in.Name, Description: in.Description}
	if err := s.Repo.CreateTestObject(ctx, obj); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrTestObjectTaken
		}
		return nil, fmt.Errorf("create test object: %w", err)
	}
	s.put(ctx, obj)
	return obj, nil
}

// Update keeps the current value of every empty field.
func (s *TestObjectService) Update(ctx context.Context, id uint, in TestObjectInput) (*models.TestObject, error) {
	obj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		obj.Name = in.Name
	}
	if in.Description != "" {
		obj.Description = in.Description
	}
	if err := s.Repo.UpdateTestObject(ctx, obj); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrTestObjectTaken
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update test object: %w", err)
	}
	s.put(ctx, obj)
	return obj, nil
}

func (s *TestObjectService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteTestObject(ctx, id); err != nil {
		return mapWriteErr("delete test object", err)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "op", "remove", "id", id, "error", err)
		}
	}
	return nil
}

// Search asks the index first and falls back to the store when the index is
// absent or failing.
func (s *TestObjectService) Search(ctx context.Context, q string, offset, limit int) (int64, []models.TestObject, error) {
	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "op", "search", "error", err)
	}
	return s.Repo.SearchTestObjects(ctx, q, offset, limit)
}

const reindexBatch = 100

// Reindex pushes every stored test object into Index and returns how many
// were written. Rows seeded or written while the index was unreachable are
// otherwise invisible to search.
func (s *TestObjectService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	n := 0
	for offset := 0; ; offset += reindexBatch {
		total, items, err := s.Repo.ListTestObjects(ctx, offset, reindexBatch)
		if err != nil {
			return n, fmt.Errorf("reindex list: %w", err)
		}
		for _, obj := range items {
			if err := s.Index.Put(ctx, obj); err != nil {
				return n, fmt.Errorf("reindex test object %d: %w", obj.ID, err)
			}
			n++
		}
		if len(items) == 0 || int64(offset+reindexBatch) >= total {
			return n, nil
		}
	}
}

func (s *TestObjectService) put(ctx context.Context, obj *models.TestObject) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Put(ctx, *obj); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "op", "put", "id", obj.ID, "error", err)
	}
}
