package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Benjamin-Elon/trellis/core/model"
)

func TestScenarios(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario fixtures next to the test")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	tmp, err := os.CreateTemp(t.TempDir(), "bad*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString(":"); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmp.Name()); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestCatalogRejectsShortClimate(t *testing.T) {
	sc := &Scenario{
		Cities: []model.CityRecord{{
			Name:         "stub",
			MonthlyHighC: []model.FlexFloat{1, 2},
			MonthlyLowC:  []model.FlexFloat{0, 1},
		}},
	}
	if _, err := sc.Catalog(); err == nil {
		t.Fatal("expected error for incomplete monthly normals")
	}
}
