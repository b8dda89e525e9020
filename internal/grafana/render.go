package grafana

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"
)

var templateFiles = []string{
	"grafana-dashboard.json.tmpl",
}

// funcMap exposes env lookups to the templates so datasource UIDs stay
// out of the checked-in JSON.
var funcMap = template.FuncMap{
	"env": func(key string) (string, error) {
		v := os.Getenv(key)
		if v == "" {
			return "", fmt.Errorf("environment variable %s not set", key)
		}
		return v, nil
	},
}

func rootDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(filepath.Dir(file)))
}

// Render writes rendered Grafana dashboards for the day-totals table
// into outDir.
func Render(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	base := rootDir()
	for _, tplName := range templateFiles {
		if err := renderOne(filepath.Join(base, tplName), outDir); err != nil {
			return err
		}
	}
	return nil
}

func renderOne(path, outDir string) error {
	t, err := template.New(filepath.Base(path)).Funcs(funcMap).ParseFiles(path)
	if err != nil {
		return err
	}
	outPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(path), ".tmpl"))
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := t.Execute(f, nil); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
