package store

import (
	"log/slog"
	"slices"

	"github.com/Veraticus/thriftly/internal/entity"
	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/persist"
)

// CategoryStore owns the category collection.
type CategoryStore struct {
	binding *persist.Binding[[]model.Category]
	ids     entity.IDGenerator
}

// NewCategoryStore wraps binding with category operations.
func NewCategoryStore(binding *persist.Binding[[]model.Category], ids entity.IDGenerator) *CategoryStore {
	return &CategoryStore{binding: binding, ids: ids}
}

// All returns a copy of the categories in insertion order.
func (s *CategoryStore) All() []model.Category {
	return slices.Clone(s.binding.Value())
}

// Find returns the category with the given id.
func (s *CategoryStore) Find(id string) (model.Category, bool) {
	return entity.Find(s.binding.Value(), id)
}

// Create assigns an id to input and appends the category. The only possible
// error is an *entity.IDGenerationError, in which case nothing is stored.
func (s *CategoryStore) Create(input model.CategoryInput) (model.Category, error) {
	category, err := entity.Create[model.Category](s.ids, input)
	if err != nil {
		return model.Category{}, err
	}

	s.binding.Update(func(prev []model.Category) []model.Category {
		return entity.Append(prev, category)
	})

	slog.Debug("created category", "id", category.ID, "name", category.Name)
	return category, nil
}

// Update replaces the category sharing category.ID. Unknown ids are ignored.
func (s *CategoryStore) Update(category model.Category) {
	s.binding.Update(func(prev []model.Category) []model.Category {
		return entity.Replace(prev, category)
	})
}

// Delete removes the category with the given id. Transactions referencing it
// keep the dangling id.
func (s *CategoryStore) Delete(id string) {
	s.binding.Update(func(prev []model.Category) []model.Category {
		return entity.Remove(prev, id)
	})
}

// Subscribe calls fn with the new collection after every change.
func (s *CategoryStore) Subscribe(fn func([]model.Category)) func() {
	return s.binding.Subscribe(fn)
}
