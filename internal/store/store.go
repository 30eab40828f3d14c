// Package store implements the dataset store: the single owner of the
// active dataset, its lazily computed schema, and the current filter
// state. Chart data, mapping suggestions, and validations are produced on
// demand and never hold references back into the store.
package store

import (
	"errors"
	"sync"
	"time"

	"vizboard/internal"
	"vizboard/internal/aggregate"
	"vizboard/internal/classify"
	"vizboard/internal/mapping"
	"vizboard/internal/regress"

	"vizboard/domain/chart"
	"vizboard/domain/core"
	"vizboard/domain/schema"
	"vizboard/domain/table"
)

// ErrStaleLoad marks a load commit that lost to a newer one. The caller
// should drop its dataset; the store already holds fresher data.
var ErrStaleLoad = errors.New("load superseded by a newer dataset")

// ErrNoDataset marks operations that need a loaded dataset
var ErrNoDataset = errors.New("no dataset loaded")

// Store holds the active dataset and filter state behind one lock. The
// schema is computed lazily and invalidated by loads, never by filter
// changes; filters act on a view of the records, not the schema.
type Store struct {
	mu sync.RWMutex

	logger     *internal.Logger
	classifier *classify.FieldClassifier
	mapper     *mapping.FieldMapper
	engine     *aggregate.Engine
	regression *regress.Engine

	datasetID core.DatasetID
	name      string
	dataset   *table.Dataset
	filters   table.FilterSet
	schema    *schema.Schema
	loadedAt  time.Time

	// loadSeq hands out tokens at load start; committedSeq remembers the
	// newest committed one. A commit with an older token is stale and
	// rejected, so a slow read can never clobber a newer dataset.
	loadSeq      uint64
	committedSeq uint64
}

// New creates an empty store
func New(logger *internal.Logger) *Store {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Store{
		logger:     logger,
		classifier: classify.NewFieldClassifier(),
		mapper:     mapping.NewFieldMapper(),
		engine:     aggregate.NewEngine(),
		regression: regress.NewEngine(),
	}
}

// BeginLoad claims a token for a load about to start. Tokens order loads
// by start time, so of two concurrent loads the later-started one wins
// regardless of completion order.
func (s *Store) BeginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadSeq++
	return s.loadSeq
}

// CommitLoad installs a dataset under a previously claimed token. It
// replaces the records, resets filters, and invalidates the schema.
// Stale tokens return ErrStaleLoad and leave the store untouched.
func (s *Store) CommitLoad(token uint64, name string, ds *table.Dataset) (core.DatasetID, error) {
	return s.commit(token, core.DatasetID(core.NewID()), name, ds)
}

// CommitLoadAs installs a dataset under an existing identity, used when
// reactivating a persisted dataset so saved views keep their binding
func (s *Store) CommitLoadAs(token uint64, id core.DatasetID, name string, ds *table.Dataset) (core.DatasetID, error) {
	if id == "" {
		id = core.DatasetID(core.NewID())
	}
	return s.commit(token, id, name, ds)
}

func (s *Store) commit(token uint64, id core.DatasetID, name string, ds *table.Dataset) (core.DatasetID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token <= s.committedSeq {
		s.logger.Warn("[Store] Discarding stale load %q (token %d, newest %d)", name, token, s.committedSeq)
		return "", ErrStaleLoad
	}
	s.committedSeq = token

	if ds == nil {
		ds = table.NewDataset(nil, nil)
	}

	s.datasetID = id
	s.name = name
	s.dataset = ds
	s.filters = nil
	s.schema = nil
	s.loadedAt = time.Now().UTC()

	s.logger.Info("[Store] Loaded dataset %q (%s): %d records, %d columns",
		name, s.datasetID, ds.Len(), len(ds.Columns))
	return s.datasetID, nil
}

// Load installs a dataset synchronously
func (s *Store) Load(name string, ds *table.Dataset) core.DatasetID {
	id, _ := s.CommitLoad(s.BeginLoad(), name, ds)
	return id
}

// LoadAs installs a dataset synchronously under an existing identity
func (s *Store) LoadAs(id core.DatasetID, name string, ds *table.Dataset) core.DatasetID {
	got, _ := s.CommitLoadAs(s.BeginLoad(), id, name, ds)
	return got
}

// HasDataset reports whether a dataset is loaded
func (s *Store) HasDataset() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset != nil
}

// DatasetID returns the active dataset's identity, empty when none is
// loaded
func (s *Store) DatasetID() core.DatasetID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datasetID
}

// Dataset returns the full active dataset, ignoring filters
func (s *Store) Dataset() *table.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Schema returns the field classification of the full dataset, computing
// it on first use after a load. Filters never affect the schema.
func (s *Store) Schema() *schema.Schema {
	s.mu.RLock()
	cached := s.schema
	ds := s.dataset
	s.mu.RUnlock()
	if cached != nil {
		return cached
	}

	computed := s.classifier.Classify(ds)

	s.mu.Lock()
	defer s.mu.Unlock()
	// A load may have swapped the dataset while classifying; only cache
	// a schema that still describes the live records.
	if s.dataset == ds {
		s.schema = computed
	}
	return computed
}

// SetFilters replaces the filter set. The schema stays valid.
func (s *Store) SetFilters(fs table.FilterSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = fs
	s.logger.Debug("[Store] Filter set replaced: %d filters", len(fs))
}

// ClearFilters removes all filters
func (s *Store) ClearFilters() {
	s.SetFilters(nil)
}

// Filters returns the active filter set
func (s *Store) Filters() table.FilterSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// View returns the filtered records the renderer sees
func (s *Store) View() []table.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return []table.Record{}
	}
	return s.filters.Apply(s.dataset.Records)
}

// Suggest proposes a default mapping for a chart type over the current
// schema
func (s *Store) Suggest(t chart.Type) chart.Mapping {
	return s.mapper.Suggest(t, s.Schema())
}

// Validate checks a mapping for a chart type against the current schema
func (s *Store) Validate(t chart.Type, m chart.Mapping) chart.Validation {
	return s.mapper.Validate(t, m, s.Schema())
}

// ChartData is the full renderer payload for one (chart type, mapping)
// request: the validation outcome, the aggregate when the mapping is
// valid, and the regression overlay for scatter charts.
type ChartData struct {
	ChartType  chart.Type           `json:"chartType"`
	Mapping    chart.Mapping        `json:"mapping"`
	Validation chart.Validation     `json:"validation"`
	Result     *aggregate.Result    `json:"result,omitempty"`
	Fit        *chart.RegressionFit `json:"fit,omitempty"`
	TotalRows  int                  `json:"totalRows"`
	ViewRows   int                  `json:"viewRows"`
}

// ChartData validates the mapping and, when valid, aggregates the
// filtered view. Invalid mappings return the validation result alone:
// they must not reach aggregation.
func (s *Store) ChartData(t chart.Type, m chart.Mapping) (*ChartData, error) {
	t, err := chart.ParseType(string(t))
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = s.Suggest(t)
	}

	data := &ChartData{
		ChartType:  t,
		Mapping:    m,
		Validation: s.Validate(t, m),
		TotalRows:  s.Dataset().Len(),
	}

	view := s.View()
	data.ViewRows = len(view)
	if !data.Validation.IsValid {
		return data, nil
	}

	result, err := s.engine.Aggregate(t, view, m)
	if err != nil {
		return nil, err
	}
	data.Result = result

	if t == chart.TypeScatter {
		data.Fit = s.regression.Fit(result.Points)
	}
	return data, nil
}

// Info is a point-in-time summary of the store for status endpoints
type Info struct {
	DatasetID   core.DatasetID `json:"datasetId,omitempty"`
	Name        string         `json:"name,omitempty"`
	Records     int            `json:"records"`
	Columns     []string       `json:"columns,omitempty"`
	FilterCount int            `json:"filterCount"`
	LoadedAt    *time.Time     `json:"loadedAt,omitempty"`
}

// Info snapshots the store state
func (s *Store) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := Info{
		DatasetID:   s.datasetID,
		Name:        s.name,
		FilterCount: len(s.filters),
	}
	if s.dataset != nil {
		info.Records = s.dataset.Len()
		info.Columns = s.dataset.Columns
		t := s.loadedAt
		info.LoadedAt = &t
	}
	return info
}
