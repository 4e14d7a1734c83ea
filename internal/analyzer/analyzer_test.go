package analyzer

import (
	"bytes"
	"testing"
)

func TestAnalyzeRepetitiveBytes(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 1024)
	report := Analyze(data, "")
	if report.ContentClass != ClassRepetitive && report.ContentClass != ClassText {
		t.Fatalf("expected repetitive or text classification for uniform bytes, got %s", report.ContentClass)
	}
	if report.CompressibilityEstimate < 0.5 {
		t.Fatalf("expected high compressibility for uniform bytes, got %f", report.CompressibilityEstimate)
	}
}

func TestAnalyzeStructuredJSON(t *testing.T) {
	data := bytes.Repeat([]byte(`{"a":1,"b":2,"c":3}`), 1000)
	report := Analyze(data, "")
	if report.ContentClass != ClassStructuredText {
		t.Fatalf("expected structured_text, got %s", report.ContentClass)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	report := Analyze(nil, "")
	if report.ContentClass != ClassUnknown {
		t.Fatalf("expected unknown class for empty input, got %s", report.ContentClass)
	}
	if report.CompressibilityEstimate != 0.5 {
		t.Fatalf("expected conservative 0.5 compressibility for empty input")
	}
}

func TestAnalyzeHighEntropyRandom(t *testing.T) {
	data := make([]byte, 1<<16)
	var state uint64 = 1
	for i := range data {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		data[i] = byte(state)
	}
	report := Analyze(data, "")
	if report.Entropy < 7.0 {
		t.Fatalf("expected near-maximal entropy for prng data, got %f", report.Entropy)
	}
}

func TestAnalyzeSamplingPolicy(t *testing.T) {
	small := make([]byte, 1024)
	report := Analyze(small, "")
	if report.SampleSizeBytes != 1024 {
		t.Fatalf("expected whole-file sample for small input, got %d", report.SampleSizeBytes)
	}

	large := make([]byte, 1<<20)
	report = Analyze(large, "")
	if report.SampleSizeBytes != 3*16*1024 {
		t.Fatalf("expected 48 KiB sample for large input, got %d", report.SampleSizeBytes)
	}
}

func TestAnalyzeWithThresholdHonorsOverride(t *testing.T) {
	large := make([]byte, 1<<20)
	report := AnalyzeWithThreshold(large, "", 4096)
	if report.SampleSizeBytes != 3*16*1024 {
		t.Fatalf("expected a lowered threshold to force chunk sampling, got sample size %d", report.SampleSizeBytes)
	}

	small := make([]byte, 8192)
	report = AnalyzeWithThreshold(small, "", 1<<20)
	if report.SampleSizeBytes != len(small) {
		t.Fatalf("expected a raised threshold to sample the whole input, got sample size %d", report.SampleSizeBytes)
	}
}

func TestAnalyzeExtensionHint(t *testing.T) {
	data := make([]byte, 4096)
	report := Analyze(data, "photo.png")
	if report.ContentClass != ClassMedia {
		t.Fatalf("expected media class from extension hint, got %s", report.ContentClass)
	}
}
