package sqlite

import (
	"fmt"

	"github.com/venturelab/workbench/pkg/types"
)

var _ types.Table = (*table)(nil)

// table implements types.Table for a single record type. Each table knows
// its name and the backend it belongs to (for DB access and cross-table
// cascades).
type table struct {
	name    string
	backend *Backend
}

// Get retrieves a record by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (t *table) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrDetached
	}

	switch t.name {
	case types.TableEntities:
		return t.getEntity(id)
	case types.TableLinks:
		return t.getLink(id)
	case types.TableEvidence:
		return t.getEvidence(id)
	case types.TableFeedback:
		return t.getFeedback(id)
	case types.TableStages:
		return t.getStage(id)
	case types.TableTouchpoints:
		return t.getTouchpoint(id)
	default:
		return nil, types.ErrTableNotFound
	}
}

// Set creates or updates a record. If id is empty, generates a UUID v7.
// Returns the record ID actually used.
func (t *table) Set(id string, data any) (string, error) {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return "", types.ErrDetached
	}

	switch t.name {
	case types.TableEntities:
		return t.setEntity(id, data)
	case types.TableLinks:
		return t.setLink(id, data)
	case types.TableEvidence:
		return t.setEvidence(id, data)
	case types.TableFeedback:
		return t.setFeedback(id, data)
	case types.TableStages:
		return t.setStage(id, data)
	case types.TableTouchpoints:
		return t.setTouchpoint(id, data)
	default:
		return "", types.ErrTableNotFound
	}
}

// Delete removes a record by ID, cascading where the record owns children.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (t *table) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.ErrDetached
	}

	switch t.name {
	case types.TableEntities:
		return t.deleteEntity(id)
	case types.TableLinks:
		return t.deleteLink(id)
	case types.TableEvidence:
		return t.deleteEvidence(id)
	case types.TableFeedback:
		return t.deleteFeedback(id)
	case types.TableStages:
		return t.deleteStage(id)
	case types.TableTouchpoints:
		return t.deleteTouchpoint(id)
	default:
		return types.ErrTableNotFound
	}
}

// Fetch returns records matching the filter. Empty filter matches all.
func (t *table) Fetch(filter types.Filter) ([]any, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrDetached
	}

	switch t.name {
	case types.TableEntities:
		return t.fetchEntities(filter)
	case types.TableLinks:
		return t.fetchLinks(filter)
	case types.TableEvidence:
		return t.fetchEvidence(filter)
	case types.TableFeedback:
		return t.fetchFeedback(filter)
	case types.TableStages:
		return t.fetchStages(filter)
	case types.TableTouchpoints:
		return t.fetchTouchpoints(filter)
	default:
		return nil, types.ErrTableNotFound
	}
}

// filterString extracts a string-valued filter key.
// Returns ErrInvalidFilter when the value is present but not a string.
func filterString(filter types.Filter, key string) (string, bool, error) {
	v, ok := filter[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, types.ErrInvalidFilter
	}
	return s, true, nil
}

// toInt converts various numeric filter values to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// appendPaging appends LIMIT/OFFSET clauses from the filter.
func appendPaging(query string, filter types.Filter) (string, error) {
	if v, ok := filter["limit"]; ok {
		l, ok := toInt(v)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if l > 0 {
			query += fmt.Sprintf(" LIMIT %d", l)
		}
	}
	if v, ok := filter["offset"]; ok {
		o, ok := toInt(v)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if o > 0 {
			query += fmt.Sprintf(" OFFSET %d", o)
		}
	}
	return query, nil
}
