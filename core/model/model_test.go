package model

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	if s.IsFitted() {
		t.Fatal("new StateManager should not be fitted")
	}

	err := s.RequireFitted("GaussianMLE", "Predict")
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}
	if notFitted.ModelName != "GaussianMLE" {
		t.Errorf("ModelName = %q", notFitted.ModelName)
	}

	s.SetFitted(3, 100)
	if err := s.RequireFitted("GaussianMLE", "Predict"); err != nil {
		t.Errorf("RequireFitted() after SetFitted = %v", err)
	}
	if f, n := s.GetDimensions(); f != 3 || n != 100 {
		t.Errorf("GetDimensions() = (%d, %d), want (3, 100)", f, n)
	}
	if err := s.RequireFeatures("Predict", 3); err != nil {
		t.Errorf("RequireFeatures(3) = %v", err)
	}
	if err := s.RequireFeatures("Predict", 2); !errors.Is(err, errors.ErrDimensionMismatch) {
		t.Errorf("RequireFeatures(2) = %v, want dimension mismatch", err)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("Reset should clear the fitted flag")
	}
	if f, n := s.GetDimensions(); f != 0 || n != 0 {
		t.Errorf("Reset should clear dimensions, got (%d, %d)", f, n)
	}
}

func TestStateManagerConcurrentAccess(t *testing.T) {
	s := NewStateManager()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.SetFitted(i, i*10)
		}(i)
		go func() {
			defer wg.Done()
			_ = s.GetState()
			_ = s.IsFitted()
		}()
	}
	wg.Wait()
	if !s.IsFitted() {
		t.Error("expected fitted after concurrent SetFitted calls")
	}
}

func TestBaseEstimator(t *testing.T) {
	var e BaseEstimator
	if e.IsFitted() || e.State.String() != "not_fitted" {
		t.Fatal("zero BaseEstimator should be unfitted")
	}
	e.SetFitted()
	if !e.IsFitted() || e.State.String() != "fitted" {
		t.Error("SetFitted had no effect")
	}
	e.Reset()
	if e.IsFitted() {
		t.Error("Reset had no effect")
	}
}

type persisted struct {
	BaseEstimator
	Coef []float64
	Meta ModelState
}

func TestSaveLoadModel(t *testing.T) {
	src := persisted{Coef: []float64{2.2, 0.6}, Meta: ModelState{Fitted: true, NFeatures: 2, NSamples: 5}}
	src.SetFitted()

	path := filepath.Join(t.TempDir(), "model.gob")
	if err := SaveModel(&src, path); err != nil {
		t.Fatalf("SaveModel() = %v", err)
	}

	var dst persisted
	if err := LoadModel(&dst, path); err != nil {
		t.Fatalf("LoadModel() = %v", err)
	}
	if !dst.IsFitted() || dst.Meta != src.Meta || len(dst.Coef) != 2 || dst.Coef[1] != 0.6 {
		t.Errorf("round trip mismatch: %+v", dst)
	}

	if err := LoadModel(&dst, filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Error("LoadModel() on a missing file should fail")
	}
}

func TestLoadModelFromReaderCorrupt(t *testing.T) {
	var dst persisted
	if err := LoadModelFromReader(&dst, bytes.NewBufferString("not gob")); err == nil {
		t.Error("expected decode error")
	}

	var buf bytes.Buffer
	if err := SaveModelToWriter(persisted{Coef: []float64{1}}, &buf); err != nil {
		t.Fatalf("SaveModelToWriter() = %v", err)
	}
	if err := LoadModelFromReader(&dst, &buf); err != nil {
		t.Errorf("LoadModelFromReader() = %v", err)
	}
}
