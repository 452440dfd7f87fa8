package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"
)

// fakeStore is an in-memory projects table with failure injection.
type fakeStore struct {
	mu      sync.Mutex
	rows    map[string]Row
	seq     int
	clock   time.Time
	calls   []string
	failOn  map[string]error
	updates [][]Assignment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:   make(map[string]Row),
		clock:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		failOn: make(map[string]error),
	}
}

func (f *fakeStore) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failOn, op)
		return
	}
	f.failOn[op] = err
}

func (f *fakeStore) record(op string) error {
	f.calls = append(f.calls, op)
	return f.failOn[op]
}

func (f *fakeStore) SelectAll(context.Context) ([]Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("select"); err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) Insert(_ context.Context, row Row) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("insert"); err != nil {
		return "", err
	}
	f.seq++
	f.clock = f.clock.Add(time.Minute)
	row.ID = fmt.Sprintf("9f1c2d3e-%04d-4a5b-8c7d-000000000000", f.seq)
	row.CreatedAt = f.clock
	row.UpdatedAt = f.clock
	f.rows[row.ID] = row
	return row.ID, nil
}

func (f *fakeStore) Update(_ context.Context, id string, set []Assignment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update"); err != nil {
		return 0, err
	}
	f.updates = append(f.updates, set)
	row, ok := f.rows[id]
	if !ok {
		return 0, nil
	}
	for _, a := range set {
		applyAssignment(&row, a)
	}
	f.clock = f.clock.Add(time.Minute)
	row.UpdatedAt = f.clock
	f.rows[id] = row
	return 1, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete"); err != nil {
		return 0, err
	}
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func applyAssignment(row *Row, a Assignment) {
	switch a.Column {
	case "name":
		row.Name = a.Value.(string)
	case "location":
		row.Location = a.Value.(string)
	case "area":
		row.Area = a.Value.(float64)
	case "progress":
		row.Progress = a.Value.(float64)
	case "description":
		row.Description = a.Value.(string)
	case "current_status":
		row.CurrentStatus = nullableValue(a.Value)
	case "notes":
		row.Notes = nullableValue(a.Value)
	case "image_url":
		row.ImageURL = nullableValue(a.Value)
	case "pdf_url":
		row.PDFURL = nullableValue(a.Value)
	}
}

func nullableValue(v any) sql.NullString {
	return v.(sql.NullString)
}
