package ensemble

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/lifechart/internal/grid"
)

func TestRunOrderAndDeterminism(t *testing.T) {
	cfg := Config{Rows: 12, Cols: 12, Density: 0.3, Generations: 20, Runs: 6, SeedStart: 100, Parallel: 3}

	a, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i].Seed != cfg.SeedStart+int64(i) {
			t.Errorf("result %d has seed %d", i, a[i].Seed)
		}
		if a[i].Final != b[i].Final || a[i].Settled != b[i].Settled {
			t.Errorf("seed %d not reproducible", a[i].Seed)
		}
		if len(a[i].Populations) != cfg.Generations+1 {
			t.Errorf("expected %d samples, got %d", cfg.Generations+1, len(a[i].Populations))
		}
		if a[i].Peak < a[i].Initial || a[i].Peak < a[i].Final {
			t.Errorf("peak %d below initial %d or final %d", a[i].Peak, a[i].Initial, a[i].Final)
		}
	}
}

func TestRunMatchesSerialStep(t *testing.T) {
	cfg := Config{Rows: 10, Cols: 10, Density: 0.3, Generations: 15, Runs: 1, SeedStart: 7}
	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	g := grid.Randomize(grid.New(10, 10), grid.NewRNG(7), 0.3)
	for i := 0; i < 15; i++ {
		g = grid.Step(g)
	}
	if res[0].Final != g.Population() {
		t.Errorf("expected final population %d, got %d", g.Population(), res[0].Final)
	}
}

func TestEmptyBoardSettlesImmediately(t *testing.T) {
	res, err := Run(context.Background(), Config{Rows: 6, Cols: 6, Density: 0, Generations: 5, Runs: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res[0].Settled != 0 || res[0].Period != 1 {
		t.Errorf("expected settled at 0 with period 1, got %d/%d", res[0].Settled, res[0].Period)
	}
}

func TestRunErrors(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		cfg  Config
		want error
	}{
		{"no runs", context.Background(), Config{}, ErrNoRuns},
		{"negative generations", context.Background(), Config{Rows: 8, Cols: 8, Generations: -5, Runs: 1}, ErrNoGenerations},
		{"canceled", canceled, Config{Rows: 6, Cols: 6, Generations: 5, Runs: 2}, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(tt.ctx, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if res != nil {
				t.Errorf("expected no results, got %d", len(res))
			}
		})
	}
}

func TestZeroGenerations(t *testing.T) {
	res, err := Run(context.Background(), Config{Rows: 8, Cols: 8, Density: 0.3, Runs: 1, SeedStart: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(res[0].Populations) != 1 || res[0].Final != res[0].Initial {
		t.Errorf("expected only the initial sample, got %v", res[0].Populations)
	}
}
