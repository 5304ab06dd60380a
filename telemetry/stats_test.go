package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, p10, p50, p90 := ComputeDistribution(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if math.Abs(p10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", p10)
	}
	if math.Abs(p50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", p50)
	}
	if math.Abs(p90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", p90)
	}

	// Input must not be reordered.
	if values[0] != 1.0 {
		t.Error("ComputeDistribution sorted its input in place")
	}
}

func TestComputeDistributionEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeDistribution(nil)
	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 || math.Abs(std-2) > 1e-9 {
		t.Errorf("MeanStd = %v, %v, want 5, 2", mean, std)
	}

	mean, std = MeanStd(nil)
	if mean != 0 || std != 0 || math.IsNaN(mean) {
		t.Errorf("empty MeanStd = %v, %v, want zeros", mean, std)
	}
}

func TestCollectorFlushResetsWindow(t *testing.T) {
	c := NewCollector(200, 20)

	c.RecordCreature(OriginBirth)
	c.RecordCreature(OriginSpawn)
	c.RecordCreature(OriginSpawn)
	c.RecordCreatureDeath()
	c.RecordFruitSpawn()
	c.RecordFruitGone(DeathEaten)
	c.RecordFruitGone(DeathAge)
	c.RecordPairing()
	c.RecordPairingAborted()

	if c.ShouldFlush(199) {
		t.Error("flush before the window ends")
	}
	if !c.ShouldFlush(200) {
		t.Fatal("no flush at window end")
	}

	s := c.Flush(200, Population{Creatures: 4, Fruits: 9, LifeFractions: []float64{0.5, 1}})
	if s.Births != 1 || s.Spawns != 2 || s.Deaths != 1 {
		t.Errorf("creature counts = %+v", s)
	}
	if s.FruitSpawned != 1 || s.FruitEaten != 1 || s.FruitExpired != 1 {
		t.Errorf("fruit counts = %+v", s)
	}
	if s.Pairings != 1 || s.PairingsAborted != 1 {
		t.Errorf("pairing counts = %+v", s)
	}
	if s.SimTimeSec != 10 || s.LifeMean != 0.75 {
		t.Errorf("sim_time = %v, life_mean = %v", s.SimTimeSec, s.LifeMean)
	}

	next := c.Flush(400, Population{})
	if next.Births != 0 || next.WindowStartTick != 200 {
		t.Errorf("second window = %+v, want reset counters starting at 200", next)
	}
}
