package scoring_test

import (
	"encoding/json"
	"testing"

	"github.com/learningdebunked/FAM/pkg/scoring"
)

func trainDefault(t *testing.T) *scoring.Classifier {
	t.Helper()
	c, err := scoring.TrainFromTable(scoring.DefaultRiskTable(), scoring.DefaultSafeIngredients())
	if err != nil {
		t.Fatalf("TrainFromTable: %v", err)
	}
	return c
}

func TestClassifierRecognizesTrainingPatterns(t *testing.T) {
	c := trainDefault(t)

	level, confidence := c.Predict("aspartame")
	if level != scoring.RiskHigh {
		t.Errorf("Predict(aspartame) = %s, want high", level)
	}
	if confidence <= 0.6 {
		t.Errorf("Predict(aspartame) confidence = %v, want > 0.6", confidence)
	}

	level, _ = c.Predict("sea salt")
	if level != scoring.RiskSafe {
		t.Errorf("Predict(sea salt) = %s, want safe", level)
	}
}

func TestClassifierUnknownName(t *testing.T) {
	c := trainDefault(t)
	// No character n-gram of "zzz" occurs anywhere in the training names.
	level, confidence := c.Predict("zzz")
	if level != scoring.RiskUnknown || confidence != 0 {
		t.Errorf("Predict(zzz) = %s, %v; want unknown, 0", level, confidence)
	}
	if level, confidence := c.Predict(""); level != scoring.RiskUnknown || confidence != 0 {
		t.Errorf("Predict(\"\") = %s, %v; want unknown, 0", level, confidence)
	}
}

func TestClassifierEncodeDecodeRoundTrip(t *testing.T) {
	c := trainDefault(t)

	data, err := c.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	loaded, err := scoring.DecodeClassifier(data)
	if err != nil {
		t.Fatalf("DecodeClassifier: %v", err)
	}

	for _, name := range []string{"aspartame", "sodium nitrite", "water", "tartrazine blend"} {
		wantLevel, wantConf := c.Predict(name)
		gotLevel, gotConf := loaded.Predict(name)
		if gotLevel != wantLevel || gotConf != wantConf {
			t.Errorf("Predict(%q) changed after round trip: %s/%v -> %s/%v",
				name, wantLevel, wantConf, gotLevel, gotConf)
		}
	}
}

func TestClassifierRejectsUnknownVersion(t *testing.T) {
	c := trainDefault(t)
	params := c.Params()
	params.Version = 99

	data, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := scoring.DecodeClassifier(data); err == nil {
		t.Fatal("expected error for unknown params version")
	}
}

func TestTrainRejectsEmptyInput(t *testing.T) {
	if _, err := scoring.Train(nil); err == nil {
		t.Fatal("expected error for empty training set")
	}
}
