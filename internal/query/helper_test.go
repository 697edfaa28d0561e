package query_test

import (
	"context"

	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/internal/query"
	"github.com/rohmanhakim/askpdf/internal/store"
	"github.com/rohmanhakim/askpdf/pkg/failure"
	"github.com/stretchr/testify/mock"
)

type retrieverMock struct {
	mock.Mock
}

func (r *retrieverMock) Search(ctx context.Context, q string, k int) ([]store.Hit, *failure.Error) {
	args := r.Called(ctx, q, k)
	var err *failure.Error
	if e := args.Get(1); e != nil {
		err = e.(*failure.Error)
	}
	hits, _ := args.Get(0).([]store.Hit)
	return hits, err
}

type generatorMock struct {
	mock.Mock
}

func (g *generatorMock) Generate(ctx context.Context, p query.Prompt) (string, error) {
	args := g.Called(ctx, p)
	return args.String(0), args.Error(1)
}

type sinkMock struct {
	mock.Mock
}

func (s *sinkMock) RecordError(record metadata.ErrorRecord) {
	s.Called(record)
}

func env(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}
