// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package spectra

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestInferSpectrumPathNoPathNoRun(t *testing.T) {
	_, err := InferSpectrumPath("", "")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("InferSpectrumPath(\"\", \"\") error = %v, want *ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "no spectrum path configured") {
		t.Errorf("error %q does not mention missing configuration", err)
	}
}

func TestInferSpectrumPathRunNameInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "run1.mgf"))
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})

	got, err := InferSpectrumPath("", "run1")
	if err != nil {
		t.Fatalf("InferSpectrumPath(\"\", \"run1\") error = %v", err)
	}
	if filepath.Base(got) != "run1.mgf" {
		t.Errorf("resolved %q, want run1.mgf", got)
	}
}

func TestInferSpectrumPathDirectoryJoinsRunName(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "run1.mzML"))

	got, err := InferSpectrumPath(dir, "run1")
	if err != nil {
		t.Fatalf("InferSpectrumPath(%q, \"run1\") error = %v", dir, err)
	}
	if got != filepath.Join(dir, "run1.mzML") {
		t.Errorf("resolved %q, want %q", got, filepath.Join(dir, "run1.mzML"))
	}
}

func TestInferSpectrumPathDirectoryWithoutRunName(t *testing.T) {
	dir := t.TempDir()

	_, err := InferSpectrumPath(dir, "")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "directory") {
		t.Errorf("error %q does not mention directory", err)
	}
}

func TestInferSpectrumPathBrukerBundleWithoutRunName(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "sample.d")
	if err := os.Mkdir(bundle, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := InferSpectrumPath(bundle, "")
	if err != nil {
		t.Fatalf("InferSpectrumPath(%q, \"\") error = %v", bundle, err)
	}
	if got != bundle {
		t.Errorf("resolved %q, want %q", got, bundle)
	}
}

func TestInferSpectrumPathFileWithMismatchedRunName(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "other.mgf")
	touch(t, file)

	// Mismatch degrades to a warning; the configured path wins.
	got, err := InferSpectrumPath(file, "run1")
	if err != nil {
		t.Fatalf("InferSpectrumPath(%q, \"run1\") error = %v", file, err)
	}
	if got != file {
		t.Errorf("resolved %q, want %q", got, file)
	}
}

func TestInferSpectrumPathNonexistentConfiguredPath(t *testing.T) {
	_, err := InferSpectrumPath(filepath.Join(t.TempDir(), "missing"), "run1")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "existing file or directory") {
		t.Errorf("error %q does not mention existing file or directory", err)
	}
}

func TestInferSpectrumPathNoSupportedMatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "run1.raw")) // unsupported extension

	_, err := InferSpectrumPath(dir, "run1")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "run1") {
		t.Errorf("error %q does not name the unresolved candidate", err)
	}
}

func TestInferSpectrumPathMiniTDFDirectoryIsBundle(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "acquisition")
	if err := os.Mkdir(bundle, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(bundle, "sample-ms2spectrum.bin"))
	touch(t, filepath.Join(bundle, "sample-ms2spectrum.parquet"))

	// A miniTDF folder is the source itself, never joined with a run name.
	got, err := InferSpectrumPath(bundle, "sample")
	if err != nil {
		t.Fatalf("InferSpectrumPath(%q, \"sample\") error = %v", bundle, err)
	}
	if got != bundle {
		t.Errorf("resolved %q, want %q", got, bundle)
	}
}
